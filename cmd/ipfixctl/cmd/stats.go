/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// probeSnapshot mirrors the wire shape of the stats JSON endpoint
// (stats/json.go's probeSnapshot); ipfixctl only reads it back, so it is
// redeclared here rather than imported, since the daemon's stats package
// is free to keep that type unexported.
type probeSnapshot struct {
	Forward         int64   `json:"forward_flows"`
	Reverse         int64   `json:"reverse_flows"`
	Ignored         int64   `json:"ignored_flows"`
	Templates       int64   `json:"templates"`
	LatencyMeanMs   float64 `json:"latency_mean_ms"`
	LatencyStddevMs float64 `json:"latency_stddev_ms"`
}

var statsTimeoutFlag time.Duration

func init() {
	RootCmd.AddCommand(statsCmd)
	statsCmd.Flags().DurationVarP(&statsTimeoutFlag, "timeout", "t", 5*time.Second, "HTTP request timeout")
}

var statsCmd = &cobra.Command{
	Use:   "stats <addr>",
	Short: "Fetch and render ipfixd's per-probe stats endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ConfigureVerbosity()
		snapshot, err := fetchStats(args[0], statsTimeoutFlag)
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}
		printStats(snapshot)
		return nil
	},
}

func fetchStats(addr string, timeout time.Duration) (map[string]probeSnapshot, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(addr)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, string(body))
	}

	var out map[string]probeSnapshot
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding stats body: %w", err)
	}
	return out, nil
}

// colorCount highlights a nonzero ignored/dropped counter in red; a
// zero count is unremarkable and printed plain.
func colorCount(n int64) string {
	if n > 0 {
		return color.RedString("%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func printStats(snapshot map[string]probeSnapshot) {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetColWidth(20)
	table.SetHeader([]string{"probe", "forward", "reverse", "ignored", "templates", "latency mean(ms)", "latency stddev(ms)"})
	for _, name := range names {
		s := snapshot[name]
		table.Append([]string{
			name,
			fmt.Sprintf("%d", s.Forward),
			fmt.Sprintf("%d", s.Reverse),
			colorCount(s.Ignored),
			fmt.Sprintf("%d", s.Templates),
			fmt.Sprintf("%.3f", s.LatencyMeanMs),
			fmt.Sprintf("%.3f", s.LatencyStddevMs),
		})
	}
	table.Render()
}
