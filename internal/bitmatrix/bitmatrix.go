// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package bitmatrix is a row-major packed GF(2) matrix with the row/column
// swap and transpose operations the information-set selector and the
// four-Russians elimination need.
package bitmatrix

import "github.com/xtaci/isdcrack/internal/bitops"

// BitMatrix is a row-major matrix of bits. Each row is a byte slice padded
// to a whole number of 256-bit lanes so it can be handed straight to the
// vectorized XOR kernels.
type BitMatrix struct {
	Rows, Cols int
	RowBytes   int
	data       [][]byte
}

// New allocates a zero-filled Rows x Cols matrix.
func New(rows, cols int) *BitMatrix {
	rb := bitops.PadBytes(cols)
	data := make([][]byte, rows)
	for i := range data {
		data[i] = make([]byte, rb)
	}
	return &BitMatrix{Rows: rows, Cols: cols, RowBytes: rb, data: data}
}

// Row returns the i-th row's backing bytes.
func (m *BitMatrix) Row(i int) []byte {
	return m.data[i]
}

// Get returns bit j of row i.
func (m *BitMatrix) Get(i, j int) int {
	return int((m.data[i][j/8] >> uint(j%8)) & 1)
}

// Set assigns bit j of row i.
func (m *BitMatrix) Set(i, j, bit int) {
	mask := byte(1) << uint(j%8)
	if bit != 0 {
		m.data[i][j/8] |= mask
	} else {
		m.data[i][j/8] &^= mask
	}
}

// SwapRows exchanges two rows by swapping their backing slices, O(1).
func (m *BitMatrix) SwapRows(i, j int) {
	m.data[i], m.data[j] = m.data[j], m.data[i]
}

// SwapCols exchanges two columns across every row. Touches only the one or
// two bits that actually differ, leaving every other bit in the row
// unmodified.
func (m *BitMatrix) SwapCols(i, j int) {
	if i == j {
		return
	}
	for r := 0; r < m.Rows; r++ {
		bi := m.Get(r, i)
		bj := m.Get(r, j)
		if bi != bj {
			m.Set(r, i, bj)
			m.Set(r, j, bi)
		}
	}
}

// SubCols returns a copy of the width columns starting at off, as a fresh
// Rows x width matrix. Used to pull out a contiguous column range (an H'
// half, or the syndrome columns) before extracting per-column full-height
// bit patterns via TransposeRevCols.
func (m *BitMatrix) SubCols(off, width int) *BitMatrix {
	out := New(m.Rows, width)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < width; j++ {
			if m.Get(i, off+j) != 0 {
				out.Set(i, j, 1)
			}
		}
	}
	return out
}

// ReverseRows returns a new matrix with the row order reversed.
func (m *BitMatrix) ReverseRows() *BitMatrix {
	out := &BitMatrix{Rows: m.Rows, Cols: m.Cols, RowBytes: m.RowBytes, data: make([][]byte, m.Rows)}
	for i := 0; i < m.Rows; i++ {
		out.data[i] = m.data[m.Rows-1-i]
	}
	return out
}

// Transpose returns the Cols x Rows transpose of m.
func (m *BitMatrix) Transpose() *BitMatrix {
	out := New(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if m.Get(i, j) != 0 {
				out.Set(j, i, 1)
			}
		}
	}
	return out
}

// TransposeRevCols is equivalent to transposing then reversing the
// columns, or equivalently reversing the rows then transposing. Its
// inverse is TransposeRevRows.
func (m *BitMatrix) TransposeRevCols() *BitMatrix {
	return m.ReverseRows().Transpose()
}

// TransposeRevRows is equivalent to transposing then reversing the rows,
// or equivalently reversing the columns then transposing. Its inverse is
// TransposeRevCols.
func (m *BitMatrix) TransposeRevRows() *BitMatrix {
	return m.Transpose().ReverseRows()
}
