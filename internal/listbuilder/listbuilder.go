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

// Package listbuilder enumerates every p-subset of a column set in colex
// order and XORs the chosen columns' low bits into list1's keys. The
// position enumeration (BuildListPos) and the key enumeration (BuildList1)
// share the same traversal, so the i-th key always corresponds to the
// i-th position tuple.
package listbuilder

// BuildListPos returns every p-subset {i0 > i1 > ... > i_{p-1} >= 0} of
// {0,...,n-1}, in colex order: the nested loops generating it hold i0
// outermost, stepping it up through [p-1, n-1], with each inner index
// ranging just below the one enclosing it.
func BuildListPos(n, p int) [][]int {
	if p == 0 {
		return [][]int{{}}
	}
	var out [][]int
	idx := make([]int, p)
	var rec func(level, upperBound int)
	rec = func(level, upperBound int) {
		if level == p {
			tuple := make([]int, p)
			copy(tuple, idx)
			out = append(out, tuple)
			return
		}
		lower := p - level - 1
		for v := lower; v <= upperBound; v++ {
			idx[level] = v
			rec(level+1, v-1)
		}
	}
	rec(0, n-1)
	return out
}

// BuildList1 computes, for every p-subset of columnsLow (in the same
// colex order BuildListPos(len(columnsLow), p) produces), the XOR of the
// chosen columns' low bits. list1[i] corresponds to BuildListPos(...)[i].
func BuildList1(columnsLow []uint64, p int) []uint64 {
	pos := BuildListPos(len(columnsLow), p)
	keys := make([]uint64, len(pos))
	for i, tuple := range pos {
		var k uint64
		for _, c := range tuple {
			k ^= columnsLow[c]
		}
		keys[i] = k
	}
	return keys
}
