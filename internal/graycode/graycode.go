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

// Package graycode precomputes the Gray-code index/difference tables the
// four-Russians elimination uses to walk its 2^k-row XOR table one pivot
// row at a time.
package graycode

// MaxK bounds the block width the four-Russians method ever uses.
const MaxK = 7

// Tables holds, for every k in [0, MaxK], the Gray-code inverse table and
// the successor bit-flip table.
type Tables struct {
	// Rev[k][gray(i)] == i for i in [0, 2^k).
	Rev [][]int
	// Diff[k][j] is the bit index flipped going from the j-th to the
	// (j+1)-th element of the Gray sequence, for j in [0, 2^k-1); the
	// last entry is never consulted.
	Diff [][]int
}

func gray(i int) int {
	return i ^ (i >> 1)
}

// Build precomputes Rev and Diff for every k in [0, MaxK]. Read-only once
// built; shared across all workers.
func Build() *Tables {
	t := &Tables{
		Rev:  make([][]int, MaxK+1),
		Diff: make([][]int, MaxK+1),
	}
	for k := 0; k <= MaxK; k++ {
		n := 1 << uint(k)

		rev := make([]int, n)
		for i := 0; i < n; i++ {
			rev[gray(i)] = i
		}
		t.Rev[k] = rev

		diff := make([]int, n)
		for i := k; i >= 1; i-- {
			step := 1 << uint(k-i)
			for j := 1; j*step-1 < n; j += 2 {
				diff[j*step-1] = k - i
			}
		}
		t.Diff[k] = diff
	}
	return t
}
