package bitmatrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sample(rows, cols int) *BitMatrix {
	m := New(rows, cols)
	v := uint32(1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v = v*1103515245 + 12345
			m.Set(i, j, int((v>>16)&1))
		}
	}
	return m
}

func TestSwapColsPreservesOtherBits(t *testing.T) {
	m := sample(5, 17)
	before := make([][]int, m.Rows)
	for i := range before {
		before[i] = make([]int, m.Cols)
		for j := range before[i] {
			before[i][j] = m.Get(i, j)
		}
	}
	m.SwapCols(2, 9)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			switch j {
			case 2:
				require.Equal(t, before[i][9], m.Get(i, j))
			case 9:
				require.Equal(t, before[i][2], m.Get(i, j))
			default:
				require.Equal(t, before[i][j], m.Get(i, j))
			}
		}
	}
}

func TestSwapRows(t *testing.T) {
	m := sample(4, 8)
	r0 := append([]byte{}, m.Row(0)...)
	r2 := append([]byte{}, m.Row(2)...)
	m.SwapRows(0, 2)
	require.Equal(t, r2, m.Row(0))
	require.Equal(t, r0, m.Row(2))
}

func TestTransposeRevInverse(t *testing.T) {
	m := sample(6, 13)
	rr := m.TransposeRevRows()
	back := rr.TransposeRevCols()
	require.Equal(t, m.Rows, back.Rows)
	require.Equal(t, m.Cols, back.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			require.Equal(t, m.Get(i, j), back.Get(i, j), "mismatch at %d,%d", i, j)
		}
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	m := sample(5, 9)
	tt := m.Transpose().Transpose()
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			require.Equal(t, m.Get(i, j), tt.Get(i, j))
		}
	}
}
