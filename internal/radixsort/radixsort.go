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

// Package radixsort sorts list1's (key, index) pairs with an LSD byte-wise
// radix sort: stable, ascending, O(n) in the number of keys.
package radixsort

// Sort rearranges keys and idx together in place so that keys end up
// ascending. width is the key width in bits, one of 8, 16, 32, 64; only
// that many low bytes of each key are read. The sort is stable: equal
// keys keep their original relative order, so idx stays paired to its key.
func Sort(keys []uint64, idx []int, width int) {
	n := len(keys)
	if n < 2 {
		return
	}
	passes := width / 8

	tmpKeys := make([]uint64, n)
	tmpIdx := make([]int, n)
	srcK, dstK := keys, tmpKeys
	srcI, dstI := idx, tmpIdx

	for p := 0; p < passes; p++ {
		shift := uint(p * 8)

		var count [257]int
		for i := 0; i < n; i++ {
			b := byte(srcK[i] >> shift)
			count[int(b)+1]++
		}
		for b := 0; b < 256; b++ {
			count[b+1] += count[b]
		}
		for i := 0; i < n; i++ {
			b := byte(srcK[i] >> shift)
			pos := count[b]
			count[b]++
			dstK[pos] = srcK[i]
			dstI[pos] = srcI[i]
		}

		srcK, dstK = dstK, srcK
		srcI, dstI = dstI, srcI
	}

	if passes%2 == 1 {
		copy(keys, srcK)
		copy(idx, srcI)
	}
}
