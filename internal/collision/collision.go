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

// Package collision is the birthday collision engine: it walks list2 via
// a Chase sequence, probes the radix-sorted, LUT-indexed list1 on a
// narrow partial key, verifies every partial match by a full-width XOR
// and a bounded popcount, and folds in the DOOM cyclic-shift loop when
// enabled.
package collision

import (
	"github.com/xtaci/isdcrack/internal/binsearch"
	"github.com/xtaci/isdcrack/internal/bitops"
	"github.com/xtaci/isdcrack/internal/chase"
)

// List1 is the sorted, LUT-indexed first list together with the data
// needed to recover, for any sorted position, which columns produced it.
type List1 struct {
	Keys    []uint64 // ascending, radixsort output
	Idx     []int    // Idx[sortedPos] = index into Pos
	Pos     [][]int  // colex position tuples, listbuilder.BuildListPos order
	LUT     []int
	LUTBits int
}

// Candidate is one weight-qualifying match, expressed in terms the caller
// (IsdDriver) can turn into an error vector via the column permutation.
type Candidate struct {
	Weight int
	// FlipCols are permuted-matrix column numbers, ready to index perm[]
	// (already deduplicated: a column chosen by both list1 and list2's
	// tuple cancels out of the error vector instead of appearing twice).
	FlipCols []int
	// TestBits are bit positions set in the residual after removing the
	// matched columns; each maps to a pivot column via perm[r-1-i].
	TestBits []int
	// Shift is the DOOM cyclic shift that produced this candidate, or -1
	// when DOOM is not in use.
	Shift int
}

// Engine holds one worker's per-iteration view of the problem: the two
// halves' full-width columns (with their permuted-matrix column numbers
// alongside, so FlipCols needs no further translation) and the target
// syndrome(s).
type Engine struct {
	L        int // partial-match key width in bits
	WTarget  int
	RowBytes int
	DOOM     bool

	Columns1Full [][]byte // n1+eps columns
	// Columns1Global[i] is the permuted-matrix column number of
	// Columns1Full[i] (the H'-block base offset already folded in), so
	// it can be indexed straight into perm[] by BuildSolution.
	Columns1Global []int
	Columns2Full   [][]byte
	Columns2Global []int

	// SFull holds one target syndrome row (len 1) or, in DOOM mode, the
	// cyclic shifts of it. For LW it is a single all-zero row.
	SFull [][]byte

	// Chase2 is the process-wide Chase sequence over list2's p2-subsets;
	// XorPairs is this iteration's column-pair XOR table, indexed directly
	// by the packed values Chase2.Diff carries.
	Chase2   *chase.Sequence
	XorPairs [][]byte
}

func lowBits(buf []byte, l int) uint64 {
	return bitops.LowBits(buf, l)
}

func gather(cols [][]byte, tuple []int) [][]byte {
	out := make([][]byte, len(tuple))
	for i, c := range tuple {
		out[i] = cols[c]
	}
	return out
}

func globalTuple(global []int, tuple []int) []int {
	out := make([]int, len(tuple))
	for i, c := range tuple {
		out[i] = global[c]
	}
	return out
}

// symmetricDiff returns the elements that occur in exactly one of a, b.
func symmetricDiff(a, b []int) []int {
	seen := make(map[int]int, len(a)+len(b))
	for _, x := range a {
		seen[x]++
	}
	for _, x := range b {
		seen[x]++
	}
	var out []int
	for k, v := range seen {
		if v%2 == 1 {
			out = append(out, k)
		}
	}
	return out
}

func setBits(buf []byte) []int {
	var out []int
	for byteIdx, b := range buf {
		for bit := 0; bit < 8 && b != 0; bit++ {
			if b&1 != 0 {
				out = append(out, byteIdx*8+bit)
			}
			b >>= 1
		}
	}
	return out
}

// Run walks the full Chase sequence over list2, probing list1 at every
// step (and, in DOOM mode, at every cyclic shift of the syndrome per
// step). onCandidate is invoked for every weight-qualifying match; Run
// stops early if it returns true.
func (e *Engine) Run(list1 *List1, onCandidate func(Candidate) bool) {
	seq := e.Chase2

	first := seq.Subset(0)
	firstCols := gather(e.Columns2Full, first)
	curNoSyn := make([]byte, e.RowBytes)
	bitops.XorK(curNoSyn, firstCols[0], firstCols[1:]...)

	shifts := 1
	if e.DOOM {
		shifts = len(e.SFull)
	}

	cur := make([]byte, e.RowBytes)
	probe := make([]byte, e.RowBytes)

	for n := 0; n < seq.Total; n++ {
		if n > 0 {
			bitops.XorK(curNoSyn, curNoSyn, e.XorPairs[seq.Diff[n]])
		}

		list2Tuple := seq.Subset(n)
		list2Global := globalTuple(e.Columns2Global, list2Tuple)

		for shift := 0; shift < shifts; shift++ {
			if e.DOOM {
				bitops.XorK(cur, curNoSyn, e.SFull[shift])
			} else {
				bitops.XorK(cur, curNoSyn, e.SFull[0])
			}

			key := lowBits(cur, e.L)
			start := binsearch.Probe(list1.Keys, list1.LUT, list1.LUTBits, e.L, key)
			for idx := start; idx < len(list1.Keys) && list1.Keys[idx] == key; idx++ {
				origIdx := list1.Idx[idx]
				tuple1 := list1.Pos[origIdx]
				cols1 := gather(e.Columns1Full, tuple1)
				bitops.XorK(probe, cur, cols1...)

				wt := bitops.PopcountBounded(probe, e.WTarget)
				if wt > e.WTarget {
					continue
				}

				list1Global := globalTuple(e.Columns1Global, tuple1)
				flips := symmetricDiff(list1Global, list2Global)
				total := wt + len(flips)
				if total == 0 || total > e.WTarget {
					continue
				}

				cand := Candidate{
					Weight:   total,
					FlipCols: flips,
					TestBits: setBits(probe),
					Shift:    -1,
				}
				if e.DOOM {
					cand.Shift = shift
				}
				if onCandidate(cand) {
					return
				}
			}
		}
	}
}

// BuildSolution materializes the n-bit error vector for a Candidate. perm
// maps permuted-position -> original-position; r is the redundancy
// (pivot-row count, and the DOOM cyclic-shift modulus). cand.FlipCols
// must already be expressed as permuted-matrix column numbers (i.e. the
// caller has folded in the H'-block base offset); TestBits index the
// pivot columns directly via perm[r-1-i].
func BuildSolution(n, r int, perm []int, doom bool, cand Candidate) []byte {
	out := make([]byte, (n+7)/8)
	flip := func(col int) {
		out[col/8] ^= 1 << uint(col%8)
	}
	deshift := func(q int) int {
		if !doom || cand.Shift < 0 {
			return q
		}
		return (q/r)*r + (q+r-cand.Shift)%r
	}
	for _, c := range cand.FlipCols {
		q := perm[c]
		flip(deshift(q))
	}
	for _, i := range cand.TestBits {
		q := perm[r-1-i]
		flip(deshift(q))
	}
	return out
}
