// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command qbench measures the mean cost per send of the qbench queues.
//
// Usage:
//
//	go run ./cmd/qbench -set all -pin -cores 2,3
//
// Exit status is 0 when every selected variant ran, 1 when any of them
// was unavailable or failed, and 2 on bad flags.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"code.hybscloud.com/qbench/internal/harness"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("qbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	set := fs.String("set", "default", "benchmark set: default, extended or all")
	pin := fs.Bool("pin", false, "pin producer and consumer to distinct cores")
	cores := fs.String("cores", "0,1", "producer,consumer core pair used with -pin")
	count := fs.Int("count", harness.DefaultCount, "iterations; each run sends twice as many values")
	asJSON := fs.Bool("json", false, "write a JSON report instead of a table")
	filter := fs.String("run", "", "only run variants whose name matches this regexp")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "qbench: unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 2
	}

	sets, err := harness.ParseSets(*set)
	if err != nil {
		fmt.Fprintln(stderr, "qbench:", err)
		return 2
	}
	cfg := harness.Config{Count: *count, Pin: *pin}
	if cfg.Cores, err = parseCores(*cores); err != nil {
		fmt.Fprintln(stderr, "qbench:", err)
		return 2
	}
	if cfg.Count < 1 {
		fmt.Fprintf(stderr, "qbench: -count must be >= 1, got %d\n", cfg.Count)
		return 2
	}
	var re *regexp.Regexp
	if *filter != "" {
		if re, err = regexp.Compile(*filter); err != nil {
			fmt.Fprintln(stderr, "qbench: -run:", err)
			return 2
		}
	}

	vs := harness.Select(sets, re)
	if len(vs) == 0 {
		fmt.Fprintln(stderr, "qbench: no variant selected")
		return 2
	}
	fmt.Fprintf(stderr, "qbench: %d variants, %d sends each\n", len(vs), cfg.Sends())

	status := 0
	results := harness.RunAll(cfg, vs, func(r harness.Result) {
		if r.Err != nil {
			status = 1
			fmt.Fprintf(stderr, "qbench: %s: %v\n", r.Name, r.Err)
		}
	})

	if *asJSON {
		err = harness.WriteJSON(stdout, cfg, results)
	} else {
		err = harness.WriteTable(stdout, results)
	}
	if err != nil {
		fmt.Fprintln(stderr, "qbench:", err)
		return 1
	}
	return status
}

// parseCores parses "a,b" into a core pair of distinct non-negative
// indices.
func parseCores(s string) ([2]int, error) {
	var pair [2]int
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return pair, fmt.Errorf("-cores: want two comma-separated cores, got %q", s)
	}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return pair, fmt.Errorf("-cores: invalid core %q", part)
		}
		pair[i] = n
	}
	if pair[0] == pair[1] {
		return pair, fmt.Errorf("-cores: producer and consumer need distinct cores, got %d twice", pair[0])
	}
	return pair, nil
}
