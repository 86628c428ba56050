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

// Package problem parses the four ASCII input formats (SD, QC, GO, LW) and
// builds the initial working matrix each one implies: an identity block on
// the left r columns, the parity-check data (or its QC circulant expansion)
// in the middle, and the target syndrome column(s) on the right.
package problem

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xtaci/isdcrack/internal/bitmatrix"
)

// Variant is the problem family the input file encodes.
type Variant int

const (
	SD Variant = iota
	QC
	GO
	LW
)

func (v Variant) String() string {
	switch v {
	case SD:
		return "SD"
	case QC:
		return "QC"
	case GO:
		return "GO"
	case LW:
		return "LW"
	default:
		return "unknown"
	}
}

// ParseVariant maps a CLI TYPE argument to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToUpper(s) {
	case "SD":
		return SD, nil
	case "QC":
		return QC, nil
	case "GO":
		return GO, nil
	case "LW":
		return LW, nil
	default:
		return 0, errors.Errorf("unknown problem type %q, want one of SD, QC, GO, LW", s)
	}
}

// Problem is everything IsdDriver needs to start searching: the code's
// dimensions and the working matrix A already laid out as [identity | H'
// (or its QC expansion) | syndrome column(s)].
type Problem struct {
	Variant Variant
	N, K, R int
	W       int // target weight; unused for LW
	DOOM    bool
	A       *bitmatrix.BitMatrix // R x M, M per variant/DOOM (see Parse)
}

// lineScanner wraps bufio.Scanner, skipping blank lines and '#' comments.
type lineScanner struct {
	sc *bufio.Scanner
}

func newLineScanner(f *os.File) *lineScanner {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	return &lineScanner{sc: sc}
}

// next returns the next non-comment, non-blank line.
func (s *lineScanner) next() (string, error) {
	for s.sc.Scan() {
		line := strings.TrimSpace(s.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := s.sc.Err(); err != nil {
		return "", errors.Wrap(err, "problem: reading input")
	}
	return "", errors.New("problem: unexpected end of input")
}

func (s *lineScanner) nextInt() (int, error) {
	line, err := s.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.Fields(line)[0])
	if err != nil {
		return 0, errors.Wrapf(err, "problem: parsing integer %q", line)
	}
	return v, nil
}

// nextBits reads a line of '0'/'1' characters into a bit slice.
func (s *lineScanner) nextBits() ([]byte, error) {
	line, err := s.next()
	if err != nil {
		return nil, err
	}
	bits := make([]byte, 0, len(line))
	for _, r := range line {
		switch r {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		default:
			return nil, errors.Errorf("problem: invalid character %q in bit line", r)
		}
	}
	return bits, nil
}

// nextMatrix reads rows lines of '0'/'1' characters, each expected to carry
// cols bits.
func (s *lineScanner) nextMatrix(rows, cols int) ([][]byte, error) {
	m := make([][]byte, rows)
	for i := 0; i < rows; i++ {
		row, err := s.nextBits()
		if err != nil {
			return nil, err
		}
		if len(row) != cols {
			return nil, errors.Errorf("problem: matrix row %d has %d bits, want %d", i, len(row), cols)
		}
		m[i] = row
	}
	return m, nil
}

// Parse reads an ASCII input file for the given variant and builds the
// initial working matrix (identity block, H'/circulant block, syndrome).
func Parse(path string, v Variant, doom bool) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "problem: opening input file")
	}
	defer f.Close()

	s := newLineScanner(f)

	switch v {
	case SD:
		return parseSD(s, doom)
	case QC:
		return parseQC(s, doom)
	case GO:
		return parseGO(s, doom)
	case LW:
		return parseLW(s)
	default:
		return nil, errors.Errorf("problem: unknown variant %v", v)
	}
}

func identityPrefix(a *bitmatrix.BitMatrix, r int) {
	for i := 0; i < r; i++ {
		a.Set(i, i, 1)
	}
}

// writeDenseH writes the parsed parity-check block into A's columns
// [r, r+k). The input lists the block column-wise: line j of the file is
// column j of the block (the challenge formats give H in systematic form
// (I | M) and list only M, one line per column), so A(i, r+j) = h[j][i].
func writeDenseH(a *bitmatrix.BitMatrix, h [][]byte, r, k int) {
	for j := 0; j < k; j++ {
		for i := 0; i < r; i++ {
			a.Set(i, r+j, int(h[j][i]))
		}
	}
}

// writeSyndrome extends A with the target: one column at n, or, with DOOM,
// k columns holding every cyclic shift of the syndrome (for a quasi-cyclic
// code a shifted syndrome is the syndrome of the blockwise-shifted error
// pattern, so all shifts can be attacked in one pass).
func writeSyndrome(a *bitmatrix.BitMatrix, sv []byte, n, k int, doom bool) {
	slen := len(sv)
	if !doom {
		for i := 0; i < slen; i++ {
			a.Set(i, n, int(sv[i]))
		}
		return
	}
	for j := 0; j < k; j++ {
		for i := 0; i < slen; i++ {
			a.Set(i, n+j, int(sv[((i-j)%slen+slen)%slen]))
		}
	}
}

func parseSD(s *lineScanner, doom bool) (*Problem, error) {
	n, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	if _, err := s.nextInt(); err != nil { // seed, unused
		return nil, err
	}
	w, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	k := n / 2
	r := n - k
	h, err := s.nextMatrix(k, r)
	if err != nil {
		return nil, err
	}
	sv, err := s.nextBits()
	if err != nil {
		return nil, err
	}
	if len(sv) != r {
		return nil, errors.Errorf("problem: SD syndrome has %d bits, want %d", len(sv), r)
	}

	m := n + 1
	if doom {
		m = n + k
	}
	a := bitmatrix.New(r, m)
	identityPrefix(a, r)
	writeDenseH(a, h, r, k)
	writeSyndrome(a, sv, n, k, doom)
	return &Problem{Variant: SD, N: n, K: k, R: r, W: w, DOOM: doom, A: a}, nil
}

func parseGO(s *lineScanner, doom bool) (*Problem, error) {
	n, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	k, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	w, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	r := n - k
	h, err := s.nextMatrix(k, r)
	if err != nil {
		return nil, err
	}
	sv, err := s.nextBits()
	if err != nil {
		return nil, err
	}
	if len(sv) != r {
		return nil, errors.Errorf("problem: GO syndrome has %d bits, want %d", len(sv), r)
	}

	m := n + 1
	if doom {
		m = n + k
	}
	a := bitmatrix.New(r, m)
	identityPrefix(a, r)
	writeDenseH(a, h, r, k)
	writeSyndrome(a, sv, n, k, doom)
	return &Problem{Variant: GO, N: n, K: k, R: r, W: w, DOOM: doom, A: a}, nil
}

// circulantBit returns h[(i-j+k) mod k], the bit a column-circulant block
// whose first column is h carries at (row i, column j).
func circulantBit(h []byte, k, i, j int) byte {
	idx := ((i-j)%k + k) % k
	return h[idx]
}

func parseQC(s *lineScanner, doom bool) (*Problem, error) {
	n, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	w, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	k := n / 2
	r := n - k
	h, err := s.nextBits()
	if err != nil {
		return nil, err
	}
	if len(h) != k {
		return nil, errors.Errorf("problem: QC circulant row has %d bits, want %d", len(h), k)
	}
	sv, err := s.nextBits()
	if err != nil {
		return nil, err
	}
	if len(sv) != k {
		return nil, errors.Errorf("problem: QC syndrome has %d bits, want %d", len(sv), k)
	}

	m := n + 1
	if doom {
		m = n + k
	}
	a := bitmatrix.New(r, m)
	identityPrefix(a, r)
	for j := 0; j < k; j++ {
		for i := 0; i < r; i++ {
			a.Set(i, k+j, int(circulantBit(h, k, i, j)))
		}
	}
	writeSyndrome(a, sv, n, k, doom)
	return &Problem{Variant: QC, N: n, K: k, R: r, W: w, DOOM: doom, A: a}, nil
}

func parseLW(s *lineScanner) (*Problem, error) {
	n, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	if _, err := s.nextInt(); err != nil { // seed, unused
		return nil, err
	}
	k := n / 2
	r := n - k
	h, err := s.nextMatrix(k, r)
	if err != nil {
		return nil, err
	}

	a := bitmatrix.New(r, n)
	identityPrefix(a, r)
	writeDenseH(a, h, r, k)
	return &Problem{Variant: LW, N: n, K: k, R: r, W: n, DOOM: false, A: a}, nil
}
