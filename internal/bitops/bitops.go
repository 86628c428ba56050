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

// Package bitops provides the vectorized GF(2) row primitives the rest of
// the decoder is built on: fused multi-row XOR, broadcast-XOR, a
// short-circuiting popcount, and aligned copy. Rows are plain byte slices
// so they can be handed directly to xorsimd.
package bitops

import (
	"encoding/binary"
	"math/bits"

	"github.com/templexxx/cpu"
	"github.com/templexxx/xorsimd"
)

// LaneBits is the width of one vector lane the rest of the package pads
// row widths to, one 256-bit AVX register.
const LaneBits = 256

// LaneBytes is LaneBits in bytes.
const LaneBytes = LaneBits / 8

// PadBytes rounds nbits up to a whole number of lanes and returns the byte
// length of the padded row.
func PadBytes(nbits int) int {
	words := (nbits + LaneBits - 1) / LaneBits
	return words * LaneBytes
}

// HasAVX2 reports whether the fast xorsimd path is available on this CPU.
// xorsimd makes this decision internally per-call; this is exposed only so
// callers can log which path is active at startup.
func HasAVX2() bool {
	return cpu.X86.HasAVX2
}

// CopyAligned copies src into dst. Both must be the same length; callers
// are responsible for the alignment/padding contract.
func CopyAligned(dst, src []byte) {
	copy(dst, src)
}

// XorK computes dst = x ^ y1 ^ ... ^ yk for k in {1,2,3,4}, delegating to
// xorsimd's vectorized multi-source XOR.
func XorK(dst, x []byte, ys ...[]byte) {
	switch len(ys) {
	case 0:
		copy(dst, x)
	case 1:
		xorsimd.Bytes(dst, x, ys[0])
	default:
		srcs := make([][]byte, 0, len(ys)+1)
		srcs = append(srcs, x)
		srcs = append(srcs, ys...)
		xorsimd.Encode(dst, srcs)
	}
}

// XorBcast broadcasts the low W bits of v across a row and XORs the result
// into y, writing z. W must be one of 8, 16, 32, 64.
func XorBcast(v uint64, w int, y, z []byte) {
	var pattern [8]byte
	n := w / 8
	switch w {
	case 8:
		pattern[0] = byte(v)
	case 16:
		binary.LittleEndian.PutUint16(pattern[:2], uint16(v))
	case 32:
		binary.LittleEndian.PutUint32(pattern[:4], uint32(v))
	case 64:
		binary.LittleEndian.PutUint64(pattern[:8], v)
	default:
		panic("bitops: XorBcast: w must be 8, 16, 32 or 64")
	}
	for i := 0; i < len(z); i += n {
		end := i + n
		if end > len(z) {
			end = len(z)
		}
		for j := i; j < end; j++ {
			z[j] = y[j] ^ pattern[j-i]
		}
	}
}

// PopcountBounded counts set bits in buf, stopping as soon as the running
// total exceeds max. The return value is exact when it is <= max; any
// value > max only certifies that the true weight exceeds max.
func PopcountBounded(buf []byte, max int) int {
	total := 0
	i := 0
	for ; i+8 <= len(buf); i += 8 {
		total += bits.OnesCount64(binary.LittleEndian.Uint64(buf[i : i+8]))
		if total > max {
			return total
		}
	}
	for ; i < len(buf); i++ {
		total += bits.OnesCount8(buf[i])
		if total > max {
			return total
		}
	}
	return total
}

// LowBits extracts the low l bits (l <= 64) of buf's first bytes as a
// uint64, the packing list1's partial-match keys use.
func LowBits(buf []byte, l int) uint64 {
	n := (l + 7) / 8
	if n > 8 {
		n = 8
	}
	var tmp [8]byte
	copy(tmp[:n], buf[:n])
	v := binary.LittleEndian.Uint64(tmp[:])
	if l < 64 {
		v &= (uint64(1) << uint(l)) - 1
	}
	return v
}

// CeilLog1 returns ceil(log2(x)), saturating low: 1 for x <= 1. Unlike
// CeilLog0 it never returns 0; no code in this module calls it.
func CeilLog1(x int) int {
	if x <= 1 {
		return 1
	}
	return bits.Len(uint(x - 1))
}

// CeilLog0 returns ceil(log2(x)) with CeilLog0(1) == 0. The binary
// search's step count is this shape.
func CeilLog0(x int) int {
	if x <= 1 {
		return 0
	}
	return bits.Len(uint(x - 1))
}
