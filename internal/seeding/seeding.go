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

// Package seeding derives independent per-worker RNG streams from a single
// master entropy draw: one PBKDF2 expansion per worker index, so two
// workers never share a xoroshiro state even when spawned in the same
// nanosecond.
package seeding

import (
	"crypto/sha1"
	"encoding/binary"

	"github.com/xtaci/isdcrack/internal/rng"
	"golang.org/x/crypto/pbkdf2"
)

// salt is fixed: the master entropy itself already supplies the secret
// material, so the salt only needs to separate this derivation from any
// other PBKDF2 use in the program.
const salt = "isdcrack-worker-seed"

// DeriveWorkerSeeds expands one 16-byte master draw into n independent
// xoroshiro128+ states, one per worker thread, via PBKDF2-HMAC-SHA1.
func DeriveWorkerSeeds(master []byte, n int) []*rng.State {
	out := make([]*rng.State, n)
	for worker := 0; worker < n; worker++ {
		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], uint32(worker))
		key := append(append([]byte{}, master...), idx[:]...)
		expanded := pbkdf2.Key(key, []byte(salt), 4096, 16, sha1.New)
		s0 := binary.LittleEndian.Uint64(expanded[0:8])
		s1 := binary.LittleEndian.Uint64(expanded[8:16])
		out[worker] = rng.SeedFrom(s0, s1)
	}
	return out
}
