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

// Package binsearch provides the lower-bound search over list1's sorted
// keys and the prefix lookup table (LUT) that narrows a probe to a small
// bucket before the binary search even starts.
package binsearch

import "github.com/xtaci/isdcrack/internal/bitops"

// BinSearch returns the least index i in [0, len(list)] such that every
// element to its left is < v and either i == len(list) or list[i] >= v.
// It follows Khuong's branch-reduced shape: one overlapping split brings
// the window down to the power of two below len(list), then each of the
// remaining log2-many steps is a single compare-and-advance.
func BinSearch(list []uint64, v uint64) int {
	n := len(list)
	if n == 0 {
		return 0
	}
	log := bitops.CeilLog0(n)
	cur := 0
	if log > 0 {
		half := 1 << uint(log-1)
		if list[half-1] < v {
			cur = n - half
		}
		for half > 1 {
			half >>= 1
			if list[cur+half-1] < v {
				cur += half
			}
		}
	}
	if list[cur] < v {
		cur++
	}
	return cur
}

// BuildLUT precomputes lut[b] = BinSearch(list, b*2^(l-lutBits)) for
// b in [0, 2^lutBits], filling it by bisection: the boundary at the
// midpoint of an already-known range is searched only within that range,
// so no single BinSearch call costs more than half the remaining list.
func BuildLUT(list []uint64, lutBits, l int) []int {
	size := 1 << uint(lutBits)
	lut := make([]int, size+1)
	step := uint64(1) << uint(l-lutBits)

	lut[0] = 0
	lut[size] = len(list)

	var fill func(loB, hiB int)
	fill = func(loB, hiB int) {
		if hiB-loB <= 1 {
			return
		}
		mid := (loB + hiB) / 2
		v := uint64(mid) * step
		lut[mid] = lut[loB] + BinSearch(list[lut[loB]:lut[hiB]], v)
		fill(loB, mid)
		fill(mid, hiB)
	}
	fill(0, size)
	return lut
}

// Probe narrows v to its LUT bucket in O(1), then binary searches only
// within that bucket.
func Probe(list []uint64, lut []int, lutBits, l int, v uint64) int {
	shift := uint(l - lutBits)
	bucket := int(v >> shift)
	return lut[bucket] + BinSearch(list[lut[bucket]:lut[bucket+1]], v)
}
