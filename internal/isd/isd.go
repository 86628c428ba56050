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

// Package isd runs one Dumer-variant ISD iteration: pick a random
// information set, partially echelonize it, split the non-pivoted columns
// into two halves, and hand them to the birthday collision engine. Shared
// holds the tables every worker reuses; Worker holds one worker's mutable
// state (its working matrix, permutation and PRNG stream).
package isd

import (
	"sync"

	"github.com/xtaci/isdcrack/internal/binsearch"
	"github.com/xtaci/isdcrack/internal/bitmatrix"
	"github.com/xtaci/isdcrack/internal/bitops"
	"github.com/xtaci/isdcrack/internal/chase"
	"github.com/xtaci/isdcrack/internal/collision"
	"github.com/xtaci/isdcrack/internal/gauss"
	"github.com/xtaci/isdcrack/internal/graycode"
	"github.com/xtaci/isdcrack/internal/listbuilder"
	"github.com/xtaci/isdcrack/internal/problem"
	"github.com/xtaci/isdcrack/internal/radixsort"
	"github.com/xtaci/isdcrack/internal/rng"
)

// Config collects the tuning parameters a run is fixed to for its whole
// lifetime, read at startup instead of compiled in.
type Config struct {
	L       int // partial-match key width, bits
	P1, P2  int // columns1/columns2 subset sizes, p1+p2 = p
	Eps     int // half-width expansion beyond k/2
	LUTBits int
	DOOM    bool
}

// Shared is the read-only (after Build) state every worker's IsdDriver
// reuses: the Chase sequence over list2's subsets, list1's position
// enumeration, and the Gray-code tables GaussElim needs. For LW, it also
// carries the mutex-protected best weight found so far.
type Shared struct {
	cfg     Config
	n1, n2  int
	chase2  *chase.Sequence
	listPos [][]int
	gray    *graycode.Tables

	lwMu    sync.Mutex
	lwBest  int
	hasBest bool
}

// NewShared precomputes every table workers share for a code of dimension
// k with the given Config. n1/n2 split the k+L non-pivoted columns
// roughly in half, one half per birthday list.
func NewShared(cfg Config, k int) *Shared {
	n1 := (k + cfg.L) / 2
	n2 := k + cfg.L - n1

	return &Shared{
		cfg:     cfg,
		n1:      n1,
		n2:      n2,
		chase2:  chase.Build(n2+cfg.Eps, cfg.P2),
		listPos: listbuilder.BuildListPos(n1+cfg.Eps, cfg.P1),
		gray:    graycode.Build(),
	}
}

// sortWidth is the smallest radix-sort key width in {8,16,32,64} bits that
// covers l.
func sortWidth(l int) int {
	switch {
	case l <= 8:
		return 8
	case l <= 16:
		return 16
	case l <= 32:
		return 32
	default:
		return 64
	}
}

// Worker is one goroutine's private ISD state: its working matrix, column
// permutation and PRNG stream. Never shared across goroutines.
type Worker struct {
	shared *Shared
	prob   *problem.Problem
	rnd    *rng.State

	n, k, r int
	a       *bitmatrix.BitMatrix
	perm    []int

	wTarget int
}

// NewWorker builds a fresh worker over prob, owning its own copy of the
// working matrix so concurrent workers never alias each other's A.
func NewWorker(shared *Shared, prob *problem.Problem, seed *rng.State) *Worker {
	a := bitmatrix.New(prob.A.Rows, prob.A.Cols)
	for i := 0; i < prob.A.Rows; i++ {
		copy(a.Row(i), prob.A.Row(i))
	}
	perm := make([]int, prob.N)
	for i := range perm {
		perm[i] = i
	}

	wTarget := prob.W
	if prob.Variant == problem.LW {
		wTarget = prob.N
	}

	return &Worker{
		shared:  shared,
		prob:    prob,
		rnd:     seed,
		n:       prob.N,
		k:       prob.K,
		r:       prob.R,
		a:       a,
		perm:    perm,
		wTarget: wTarget,
	}
}

// chooseInformationSet marks n-k-l distinct random columns with rejection
// sampling, then swaps them into the front [0, n-k-l) positions, mirroring
// the same swap in perm.
func (w *Worker) chooseInformationSet(toMark int) {
	marked := make(map[int]bool, toMark)
	for len(marked) < toMark {
		c := int(w.rnd.Range(uint64(w.n - 1)))
		marked[c] = true
	}

	var freeSlots, movable []int
	for pos := 0; pos < toMark; pos++ {
		if !marked[pos] {
			freeSlots = append(freeSlots, pos)
		}
	}
	for c := range marked {
		if c >= toMark {
			movable = append(movable, c)
		}
	}

	for i := range freeSlots {
		a, b := freeSlots[i], movable[i]
		w.a.SwapCols(a, b)
		w.perm[a], w.perm[b] = w.perm[b], w.perm[a]
	}
}

// reduce repeats chooseInformationSet + partial echelonization until the
// left r-l columns reach full rank. A rank-deficient attempt is not an
// error; it just leaves A/perm in a state the next attempt mutates further.
//
// Decoders built on column-major SIMD elimination kernels transpose A
// first so those kernels walk contiguous column memory;
// bitmatrix.BitMatrix already exposes O(1) Get/Set on either axis, so
// EchelonizePartial runs directly against the row-major A with no
// transpose round-trip needed.
func (w *Worker) reduce(rstop int) {
	// rstop == r-l == n-k-l: the number of columns the information set
	// must mark, and the rank the elimination below must reach.
	for {
		w.chooseInformationSet(rstop)
		if rank := gauss.EchelonizePartial(w.a, rstop, w.shared.gray); rank >= rstop {
			return
		}
	}
}

// columnsFull extracts width full-height (r-bit) columns starting at off,
// each packed with bit i equal to row r-1-i -- the row-reversed
// convention collision.BuildSolution's perm[r-1-i] lookup assumes for its
// test bits, and the one that puts the non-pivoted rows in the low l key
// bits.
func columnsFull(a *bitmatrix.BitMatrix, off, width int) [][]byte {
	t := a.SubCols(off, width).TransposeRevCols()
	out := make([][]byte, width)
	for j := 0; j < width; j++ {
		out[j] = t.Row(j)
	}
	return out
}

// Run drives IsdDriver iterations until onSolution returns true (the
// caller has accepted a solution and wants to stop) or done reports true
// (another worker already finished, for SD/QC/GO's first-success
// termination). onSolution receives the Hamming weight and the
// de-permuted n-bit error vector.
func (w *Worker) Run(done func() bool, onSolution func(weight int, vec []byte) bool) {
	cfg := w.shared.cfg
	rstop := w.r - cfg.L
	n1, n2 := w.shared.n1, w.shared.n2
	eps := cfg.Eps

	for !done() {
		w.reduce(rstop)

		off1 := rstop
		off2 := rstop + n1 - eps

		cols1Full := columnsFull(w.a, off1, n1+eps)
		cols2Full := columnsFull(w.a, off2, n2+eps)

		lowList := make([]uint64, len(cols1Full))
		for i, c := range cols1Full {
			lowList[i] = bitops.LowBits(c, cfg.L)
		}
		keys := listbuilder.BuildList1(lowList, cfg.P1)
		idx := make([]int, len(keys))
		for i := range idx {
			idx[i] = i
		}
		radixsort.Sort(keys, idx, sortWidth(cfg.L))
		lut := binsearch.BuildLUT(keys, cfg.LUTBits, cfg.L)
		list1 := &collision.List1{
			Keys: keys, Idx: idx, Pos: w.shared.listPos,
			LUT: lut, LUTBits: cfg.LUTBits,
		}

		// Full columns come out of the transposed extraction r bits tall,
		// so every engine buffer is padded to r, not to A's own row width.
		colBytes := bitops.PadBytes(w.r)

		var sFull [][]byte
		switch {
		case w.prob.Variant == problem.LW:
			// No syndrome: the engine folds in an all-zero target.
			sFull = [][]byte{make([]byte, colBytes)}
		case cfg.DOOM:
			sFull = columnsFull(w.a, w.n, w.a.Cols-w.n)
		default:
			sFull = columnsFull(w.a, w.n, 1)
		}

		cols1Global := make([]int, len(cols1Full))
		for i := range cols1Global {
			cols1Global[i] = off1 + i
		}
		cols2Global := make([]int, len(cols2Full))
		for i := range cols2Global {
			cols2Global[i] = off2 + i
		}

		xorPairs := buildXorPairTable(w.shared.chase2, cols2Full, colBytes)

		engine := &collision.Engine{
			L:              cfg.L,
			WTarget:        w.wTarget,
			RowBytes:       colBytes,
			DOOM:           cfg.DOOM,
			Columns1Full:   cols1Full,
			Columns1Global: cols1Global,
			Columns2Full:   cols2Full,
			Columns2Global: cols2Global,
			SFull:          sFull,
			Chase2:         w.shared.chase2,
			XorPairs:       xorPairs,
		}

		stop := false
		engine.Run(list1, func(c collision.Candidate) bool {
			vec := collision.BuildSolution(w.n, w.r, w.perm, cfg.DOOM, c)
			switch w.prob.Variant {
			case problem.LW:
				if w.acceptLW(c.Weight) {
					// Tighten the running engine too, so weaker matches
					// later in this same iteration are pruned by the
					// bounded popcount instead of reaching the lock.
					engine.WTarget = w.wTarget
					stop = onSolution(c.Weight, vec)
				}
				return false // LW always keeps searching within this iteration
			default:
				stop = onSolution(c.Weight, vec)
				return true
			}
		})
		if stop {
			return
		}
	}
}

// acceptLW applies the shared w_best compare-and-write under lock, then
// tightens this worker's local target so later candidates in the same (or
// a later) iteration must beat it.
func (w *Worker) acceptLW(weight int) bool {
	w.shared.lwMu.Lock()
	defer w.shared.lwMu.Unlock()
	if w.shared.hasBest && weight >= w.shared.lwBest {
		return false
	}
	w.shared.lwBest = weight
	w.shared.hasBest = true
	w.wTarget = weight - 1
	return true
}

// buildXorPairTable builds this iteration's XOR-pair table used to update the
// running list2 candidate one column-pair at a time: (len-1) adjacent
// pairs, then (len-2) distance-2 pairs, addressed by the packed (pos,len)
// a Chase step names.
func buildXorPairTable(seq *chase.Sequence, cols2 [][]byte, rowBytes int) [][]byte {
	n := seq.N
	size := 2*n - 3
	if size < 1 {
		size = 1
	}
	table := make([][]byte, size)
	for pos := 0; pos < n-1 && pos < len(cols2)-1; pos++ {
		row := make([]byte, rowBytes)
		bitops.XorK(row, cols2[pos], cols2[pos+1])
		table[pos] = row
	}
	for pos := 0; pos < n-2 && pos < len(cols2)-2; pos++ {
		row := make([]byte, rowBytes)
		bitops.XorK(row, cols2[pos], cols2[pos+2])
		table[n-1+pos] = row
	}
	for i, row := range table {
		if row == nil {
			table[i] = make([]byte, rowBytes)
		}
	}
	return table
}
