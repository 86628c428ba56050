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

// Package chase enumerates all t-subsets of {0,...,n-1} as a revolving-door
// (Chase's) sequence: consecutive subsets differ in exactly one adjacent
// or near-adjacent position pair, so the running XOR over the second list
// of the birthday search can be updated with a single column-pair XOR per
// step instead of rebuilding it from scratch.
package chase

// Sequence is the flattened result of a Chase enumeration of t-subsets of
// an n-element set.
type Sequence struct {
	N, T  int
	Total int // C(n, t)
	// Combinations holds Total*T entries; the i-th subset occupies
	// Combinations[i*T : i*T+T].
	Combinations []int
	// Diff[i] packs the (position, length) of the swap between subset
	// i-1 and subset i as pos + (len-1)*(n-1). Diff[0] describes the
	// arrival at the first subset and carries no swap.
	Diff []int
}

// Build runs Knuth's revolving-door algorithm (TAOCP 4A, exercise 45) and
// returns every t-subset of {0,...,n-1} in Chase order.
func Build(n, t int) *Sequence {
	if t == 0 {
		return &Sequence{N: n, T: 0, Total: 1, Diff: []int{0}}
	}

	c := make([]int, t+2)
	z := make([]int, t+2)
	for j := 1; j <= t+1; j++ {
		c[j] = n - t - 1 + j
	}

	r := 1
	var diffPos, diffLen int
	var combos, diffs []int

	for {
		entry := make([]int, t)
		for i := 1; i <= t; i++ {
			entry[i-1] = c[i]
		}
		combos = append(combos, entry...)
		diffs = append(diffs, diffPos+(diffLen-1)*(n-1))

		j := r
		finished := false
	novisit:
		for {
			if z[j] != 0 {
				x := c[j] + 2
				switch {
				case x < z[j]:
					diffPos = c[j]
					diffLen = 2
					c[j] = x
				case x == z[j] && z[j+1] != 0:
					diffPos = c[j]
					diffLen = 2 - (c[j+1] % 2)
					c[j] = x - (c[j+1] % 2)
				default:
					z[j] = 0
					j++
					if j <= t {
						continue novisit
					}
					finished = true
				}
				if !finished {
					if c[1] > 0 {
						r = 1
					} else {
						r = j - 1
					}
				}
			} else {
				x := c[j] + (c[j] % 2) - 2
				switch {
				case x >= j:
					diffPos = x
					diffLen = 2 - (c[j] % 2)
					c[j] = x
					r = 1
				case c[j] == j:
					diffPos = j - 1
					diffLen = 1
					c[j] = j - 1
					z[j] = c[j+1] - ((c[j+1] + 1) % 2)
					r = j
				case c[j] < j:
					diffPos = c[j]
					diffLen = j - c[j]
					c[j] = j
					z[j] = c[j+1] - ((c[j+1] + 1) % 2)
					if j > 2 {
						r = j - 1
					} else {
						r = 1
					}
				default:
					diffPos = x
					diffLen = 2 - (c[j] % 2)
					c[j] = x
					r = j
				}
			}
			break novisit
		}
		if finished {
			break
		}
	}

	return &Sequence{
		N:            n,
		T:            t,
		Total:        len(diffs),
		Combinations: combos,
		Diff:         diffs,
	}
}

// Subset returns the i-th subset as a fresh slice.
func (s *Sequence) Subset(i int) []int {
	if s.T == 0 {
		return nil
	}
	out := make([]int, s.T)
	copy(out, s.Combinations[i*s.T:i*s.T+s.T])
	return out
}

// UnpackDiff decodes a packed Diff entry into (position, length).
func UnpackDiff(packed, n int) (pos, length int) {
	length = packed/(n-1) + 1
	pos = packed % (n - 1)
	return
}
