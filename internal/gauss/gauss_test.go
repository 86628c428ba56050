package gauss

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xtaci/isdcrack/internal/bitmatrix"
	"github.com/xtaci/isdcrack/internal/graycode"
)

func TestEchelonizeFullRankYieldsIdentityBlock(t *testing.T) {
	g := graycode.Build()
	// 6x8: left 6x6 block is an explicit invertible GF(2) matrix, plus two
	// extra columns that should not influence the pivoted region.
	left := [][]int{
		{1, 0, 1, 0, 0, 0},
		{0, 1, 0, 1, 0, 0},
		{1, 1, 1, 0, 0, 0},
		{0, 0, 0, 1, 1, 0},
		{0, 0, 1, 0, 1, 1},
		{1, 0, 0, 0, 0, 1},
	}
	A := bitmatrix.New(6, 8)
	for i, row := range left {
		for j, b := range row {
			A.Set(i, j, b)
		}
		A.Set(i, 6, (i+1)%2)
		A.Set(i, 7, i%2)
	}

	rank := EchelonizePartial(A, 6, g)
	require.Equal(t, 6, rank)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			want := 0
			if i == j {
				want = 1
			}
			require.Equal(t, want, A.Get(i, j), "row %d col %d", i, j)
		}
	}
}

func TestEchelonizeRankDeficientReturnsLess(t *testing.T) {
	g := graycode.Build()
	A := bitmatrix.New(4, 6)
	// Column 0 duplicated as column 1 forces a dependency: rank over the
	// first 4 columns can be at most 3 regardless of the other rows.
	for i := 0; i < 4; i++ {
		A.Set(i, 0, (i+1)%2)
		A.Set(i, 1, (i+1)%2)
		A.Set(i, 2, i%2)
		A.Set(i, 3, (i*i)%2)
	}
	rank := EchelonizePartial(A, 4, g)
	require.Less(t, rank, 4)
}

// naiveEchelonize is the textbook reference: pick the first row holding a
// 1 in the pivot column, swap it up, XOR it into every other row with
// that bit set.
func naiveEchelonize(A *bitmatrix.BitMatrix, rstop int) int {
	r := 0
	for c := 0; c < rstop; c++ {
		pivot := -1
		for row := r; row < A.Rows; row++ {
			if A.Get(row, c) == 1 {
				pivot = row
				break
			}
		}
		if pivot == -1 {
			return r
		}
		if pivot != r {
			A.SwapRows(r, pivot)
		}
		for row := 0; row < A.Rows; row++ {
			if row != r && A.Get(row, c) == 1 {
				for j := 0; j < A.Cols; j++ {
					A.Set(row, j, A.Get(row, j)^A.Get(r, j))
				}
			}
		}
		r++
	}
	return r
}

// TestEchelonizeMatchesNaiveElimination compares the blocked reduction
// against the unblocked reference on pseudo-random matrices: same rank,
// same resulting matrix whenever the pivoted region fills completely.
func TestEchelonizeMatchesNaiveElimination(t *testing.T) {
	g := graycode.Build()
	v := uint32(7)
	next := func() int {
		v = v*1103515245 + 12345
		return int((v >> 16) & 1)
	}
	for trial := 0; trial < 20; trial++ {
		const rows, cols, rstop = 9, 14, 7
		A := bitmatrix.New(rows, cols)
		B := bitmatrix.New(rows, cols)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				b := next()
				A.Set(i, j, b)
				B.Set(i, j, b)
			}
		}

		rank := EchelonizePartial(A, rstop, g)
		wantRank := naiveEchelonize(B, rstop)
		require.Equal(t, wantRank, rank, "trial %d", trial)

		if rank == rstop {
			for i := 0; i < rows; i++ {
				for j := 0; j < cols; j++ {
					require.Equal(t, B.Get(i, j), A.Get(i, j), "trial %d row %d col %d", trial, i, j)
				}
			}
		}
	}
}

func TestKOptBounds(t *testing.T) {
	require.GreaterOrEqual(t, KOpt(1, 1), 1)
	require.LessOrEqual(t, KOpt(1<<20, 1<<20), graycode.MaxK)
}
