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

// Package gauss implements method-of-four-Russians partial row reduction
// over GF(2): columns are pivoted in blocks of k_opt width, then a
// 2^k-row Gray-code-indexed XOR table clears those columns from every
// other row in one lookup per row instead of one XOR per pivot.
package gauss

import (
	"math/bits"

	"github.com/xtaci/isdcrack/internal/bitmatrix"
	"github.com/xtaci/isdcrack/internal/bitops"
	"github.com/xtaci/isdcrack/internal/graycode"
)

// KOpt picks the four-Russians block width for a submatrix bounded by a
// rows and b columns, clamped to [1, graycode.MaxK].
func KOpt(a, b int) int {
	m := a
	if b < m {
		m = b
	}
	if m < 1 {
		m = 1
	}
	flb := 0
	if m > 1 {
		flb = bits.Len(uint(m)) - 1
	}
	k := int(0.75 * float64(1+flb))
	if k < 1 {
		k = 1
	}
	if k > graycode.MaxK {
		k = graycode.MaxK
	}
	return k
}

// gaussSubmatrix performs ordinary elimination on rows [r, r+k) restricted
// to columns [c, c+k), stopping at the first column that has no available
// pivot row. It returns the number of pivots actually placed.
func gaussSubmatrix(A *bitmatrix.BitMatrix, r, c, k int) int {
	window := r + k
	if window > A.Rows {
		window = A.Rows
	}
	for i := 0; r+i < window; i++ {
		col := c + i
		pivot := -1
		for row := r + i; row < A.Rows; row++ {
			// A row below the pivot window still carries arbitrary bits in
			// the block columns already pivoted; clear them against the
			// placed pivot rows before its candidate bit means anything.
			for l := 0; l < i; l++ {
				if A.Get(row, c+l) == 1 {
					bitops.XorK(A.Row(row), A.Row(row), A.Row(r+l))
				}
			}
			if A.Get(row, col) == 1 {
				pivot = row
				break
			}
		}
		if pivot == -1 {
			return i
		}
		if pivot != r+i {
			A.SwapRows(r+i, pivot)
		}
		for row := r; row < window; row++ {
			if row != r+i && A.Get(row, col) == 1 {
				bitops.XorK(A.Row(row), A.Row(row), A.Row(r+i))
			}
		}
	}
	return window - r
}

// makeTable builds the 2^k-row XOR table over pivot rows [r, r+k), indexed
// by Gray-sequence position: table[0] is all-zero, and table[pos] differs
// from table[pos-1] by exactly the pivot row graycode.Tables.Diff names.
func makeTable(A *bitmatrix.BitMatrix, r, k int, g *graycode.Tables) [][]byte {
	n := 1 << uint(k)
	table := make([][]byte, n)
	table[0] = make([]byte, A.RowBytes)
	diff := g.Diff[k]
	for pos := 1; pos < n; pos++ {
		bit := diff[pos-1]
		row := make([]byte, A.RowBytes)
		bitops.XorK(row, table[pos-1], A.Row(r+bit))
		table[pos] = row
	}
	return table
}

// processRows clears columns [c, c+k) from every row outside the pivot
// window [r, r+k) by a single table lookup and XOR per row.
func processRows(A *bitmatrix.BitMatrix, r, c, k int, table [][]byte, rev []int) {
	for row := 0; row < A.Rows; row++ {
		if row >= r && row < r+k {
			continue
		}
		bitsv := 0
		for i := 0; i < k; i++ {
			bitsv |= A.Get(row, c+i) << uint(i)
		}
		if bitsv == 0 {
			continue
		}
		pos := rev[bitsv]
		bitops.XorK(A.Row(row), A.Row(row), table[pos])
	}
}

// EchelonizePartial reduces A to row-echelon form on its first rstop
// columns, processing columns in KOpt-sized blocks. It returns the number
// of columns successfully pivoted; a return value less than rstop signals
// rank deficiency, which the caller treats as a retry signal, not an
// error.
func EchelonizePartial(A *bitmatrix.BitMatrix, rstop int, g *graycode.Tables) int {
	r, c := 0, 0
	for c < rstop {
		k := KOpt(A.Rows-r, rstop-c)
		if rem := rstop - c; k > rem {
			k = rem
		}
		if rem := A.Rows - r; k > rem {
			k = rem
		}
		if k < 1 {
			break
		}
		got := gaussSubmatrix(A, r, c, k)
		if got > 0 {
			table := makeTable(A, r, got, g)
			processRows(A, r, c, got, table, g.Rev[got])
		}
		r += got
		c += got
		if got < k {
			break
		}
	}
	return c
}
