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

// Package rng implements the xoroshiro128+ generator used to draw the
// per-worker information-set permutations. It is not cryptographically
// secure and makes no such claim; only the initial seed needs to come from
// a real entropy source.
package rng

import (
	"crypto/rand"
	"math/bits"

	"github.com/pkg/errors"
)

// State is one xoroshiro128+ generator's two 64-bit words.
type State struct {
	s0, s1 uint64
}

// Seed draws 16 bytes from the system entropy source and initializes a
// fresh generator. Failure to read entropy is fatal, per the contract that
// an unavailable entropy source aborts the program.
func Seed() (*State, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, errors.Wrap(err, "rng: entropy source unavailable")
	}
	s := &State{
		s0: le64(buf[0:8]),
		s1: le64(buf[8:16]),
	}
	// A zero state is a fixed point of the generator; guard against the
	// vanishingly unlikely all-zero draw by forcing a bit on.
	if s.s0 == 0 && s.s1 == 0 {
		s.s1 = 1
	}
	return s, nil
}

// SeedFrom builds a generator from two explicit words, bypassing entropy.
// Used to derive deterministic per-worker streams from a PBKDF2 expansion.
func SeedFrom(s0, s1 uint64) *State {
	if s0 == 0 && s1 == 0 {
		s1 = 1
	}
	return &State{s0: s0, s1: s1}
}

func le64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// Next advances the generator and returns the next 64-bit output.
func (s *State) Next() uint64 {
	s0 := s.s0
	s1 := s.s1
	result := s0 + s1

	s1 ^= s0
	s.s0 = bits.RotateLeft64(s0, 24) ^ s1 ^ (s1 << 16)
	s.s1 = bits.RotateLeft64(s1, 37)

	return result
}

// Range draws a uniform integer in [0, limit] with no modulo bias, via
// rejection sampling against divisor = floor((2^64-1) / (limit+1)).
func (s *State) Range(limit uint64) uint64 {
	if limit == ^uint64(0) {
		return s.Next()
	}
	divisor := (^uint64(0)) / (limit + 1)
	for {
		v := s.Next() / divisor
		if v <= limit {
			return v
		}
	}
}
