// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sugawarayuuta/sonnet"
)

// WriteTable writes one row per result: name, mean ns/send, and the error
// for failed runs.
//
//	spsc stream   12 ns/send
//	sharded ring  unavailable: harness: variant not available in this build
func WriteTable(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, r := range results {
		var err error
		if r.Err != nil {
			_, err = fmt.Fprintf(tw, "%s\tunavailable: %v\n", r.Name, r.Err)
		} else {
			_, err = fmt.Fprintf(tw, "%s\t%3.0f ns/send\n", r.Name, r.NsPerSend)
		}
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Report is the machine-readable form of a session.
type Report struct {
	Count   int      `json:"count"`
	Pinned  bool     `json:"pinned"`
	Cores   [2]int   `json:"cores"`
	Results []Result `json:"results"`
}

// WriteJSON writes cfg and results as one JSON document followed by a
// newline.
func WriteJSON(w io.Writer, cfg Config, results []Result) error {
	b, err := sonnet.Marshal(Report{
		Count:   cfg.Count,
		Pinned:  cfg.Pin,
		Cores:   cfg.Cores,
		Results: results,
	})
	if err != nil {
		return fmt.Errorf("harness: encode report: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
