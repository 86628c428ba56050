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

package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/xtaci/isdcrack/internal/bitops"
	"github.com/xtaci/isdcrack/internal/isd"
	"github.com/xtaci/isdcrack/internal/problem"
	"github.com/xtaci/isdcrack/internal/seeding"
	"github.com/xtaci/isdcrack/internal/workerpool"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "isdcrack"
	myApp.Usage = "information-set decoding attack on binary linear codes"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "threads,t",
			Value: 1,
			Usage: "number of worker goroutines",
		},
		cli.StringFlag{
			Name:  "type",
			Value: "SD",
			Usage: "problem type: SD, QC, GO, LW",
		},
		cli.StringFlag{
			Name:  "input,i",
			Usage: "input file path",
		},
		cli.BoolFlag{
			Name:  "doom",
			Usage: "DOOM mode: search all cyclic shifts of the syndrome at once (QC only)",
		},
		cli.IntFlag{
			Name:  "l",
			Value: 16,
			Usage: "partial-match key width in bits (1-64)",
		},
		cli.IntFlag{
			Name:  "p1",
			Value: 2,
			Usage: "list1 subset size",
		},
		cli.IntFlag{
			Name:  "p2",
			Value: 2,
			Usage: "list2 subset size",
		},
		cli.IntFlag{
			Name:  "eps",
			Value: 40,
			Usage: "epsilon overlap between columns1 and columns2",
		},
		cli.IntFlag{
			Name:  "lutbits",
			Value: 11,
			Usage: "bits of list1's prefix lookup table (0-l)",
		},
		cli.IntFlag{
			Name:  "benchmark",
			Value: 0,
			Usage: "run a fixed number of iterations instead of searching for a solution",
		},
		cli.StringFlag{
			Name:  "log",
			Usage: "redirect log output to this file",
		},
	}

	myApp.Action = func(c *cli.Context) error {
		if c.String("log") != "" {
			f, err := os.OpenFile(c.String("log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			checkError(err)
			defer f.Close()
			log.SetOutput(f)
		}

		typeArg, path, threads := c.String("type"), c.String("input"), c.Int("threads")
		if args := c.Args(); len(args) == 3 {
			// Positional form: N_THREADS TYPE INPUT_FILE.
			_, err := fmt.Sscan(args[0], &threads)
			checkError(errors.Wrapf(err, "isdcrack: parsing N_THREADS %q", args[0]))
			typeArg, path = args[1], args[2]
		}

		variant, err := problem.ParseVariant(typeArg)
		checkError(err)

		doom := c.Bool("doom")
		if doom && variant == problem.LW {
			fmt.Fprintln(os.Stderr, "isdcrack: --doom has no meaning without a syndrome; ignoring for LW")
			doom = false
		} else if doom && variant != problem.QC {
			fmt.Fprintln(os.Stderr, "isdcrack: using --doom in a non quasi-cyclic setting will most likely not give any meaningful result")
		}

		if path == "" {
			checkError(errors.New("isdcrack: an input file is required (--input or INPUT_FILE)"))
		}
		prob, err := problem.Parse(path, variant, doom)
		checkError(err)

		l := c.Int("l")
		p1, p2 := c.Int("p1"), c.Int("p2")
		eps := c.Int("eps")
		lutBits := c.Int("lutbits")
		if l < 1 || l > 64 {
			checkError(errors.Errorf("isdcrack: --l must be in [1, 64], got %d", l))
		}
		if p1 < 1 || p2 < 1 || p1+p2 < 4 || p1+p2 > 8 {
			checkError(errors.Errorf("isdcrack: p1+p2 must be in [4, 8], got %d+%d", p1, p2))
		}
		if lutBits < 0 || lutBits > l {
			checkError(errors.Errorf("isdcrack: --lutbits must be in [0, %d], got %d", l, lutBits))
		}
		n1 := (prob.K + l) / 2
		n2 := prob.K + l - n1
		if eps > n1 || eps > n2 {
			checkError(errors.Errorf("isdcrack: --eps %d exceeds the half width %d; lower it", eps, n1))
		}

		cfg := isd.Config{
			L:       l,
			P1:      p1,
			P2:      p2,
			Eps:     eps,
			LUTBits: lutBits,
			DOOM:    doom,
		}
		shared := isd.NewShared(cfg, prob.K)

		log.Printf("n=%d k=%d w=%d variant=%s l=%d p=%d+%d eps=%d lut=%d doom=%v",
			prob.N, prob.K, prob.W, prob.Variant, l, p1, p2, eps, lutBits, doom)
		log.Println("avx2:", bitops.HasAVX2())

		if threads < 1 {
			threads = 1
		}

		masterBytes := make([]byte, 16)
		_, err = rand.Read(masterBytes)
		checkError(errors.Wrap(err, "isdcrack: entropy source unavailable"))
		seeds := seeding.DeriveWorkerSeeds(masterBytes, threads)

		pool := &workerpool.Pool{
			T:         threads,
			StopFirst: prob.Variant != problem.LW,
			Benchmark: int64(c.Int("benchmark")),
		}

		out, stats := pool.Run(context.Background(), func(ctx context.Context, id int, p *workerpool.Pool) *workerpool.Result {
			worker := isd.NewWorker(shared, prob, seeds[id])
			var found *workerpool.Result
			iters := int64(0)
			budget := p.IterBudget(id)

			worker.Run(
				func() bool {
					if p.StopFirst && p.Done() {
						return true
					}
					if budget >= 0 && iters >= budget {
						return true
					}
					select {
					case <-ctx.Done():
						return true
					default:
					}
					iters++
					p.CountIteration()
					return false
				},
				func(weight int, vec []byte) bool {
					found = &workerpool.Result{Worker: id, Weight: weight, Vector: vec}
					if prob.Variant == problem.LW {
						// LW runs open-ended; every accepted improvement is
						// printed as it lands instead of at pool teardown.
						fmt.Println(formatSolution(prob.Variant, weight, vec, prob.N))
						return false
					}
					return true
				},
			)
			return found
		})

		var best *workerpool.Result
		for r := range out {
			r := r
			if best == nil || (prob.Variant == problem.LW && r.Weight < best.Weight) {
				best = &r
			}
		}

		if c.Int("benchmark") > 0 {
			fmt.Println(stats.Elapsed.Nanoseconds())
			return nil
		}

		if best == nil {
			fmt.Println("no solution found")
			return nil
		}
		if prob.Variant != problem.LW {
			fmt.Println(formatSolution(prob.Variant, best.Weight, best.Vector, prob.N))
		}
		return nil
	}

	myApp.Run(os.Args)
}

// formatSolution renders an n-bit error vector as a string of '0'/'1'
// characters, prefixed with its weight for LW.
func formatSolution(v problem.Variant, weight int, vec []byte, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		bit := (vec[i/8] >> uint(i%8)) & 1
		sb.WriteByte('0' + bit)
	}
	if v == problem.LW {
		return fmt.Sprintf("%d: %s", weight, sb.String())
	}
	return sb.String()
}
