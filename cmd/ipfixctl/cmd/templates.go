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
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/facebook/ipfixd/ipfix"
)

func init() {
	RootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Dump the internal template registry",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()
		printTemplates(ipfix.BuildRegistry())
	},
}

func printTemplates(r *ipfix.Registry) {
	layouts := r.All()
	sort.Slice(layouts, func(i, j int) bool { return layouts[i].ID < layouts[j].ID })

	table := tablewriter.NewWriter(os.Stdout)
	table.SetColWidth(20)
	table.SetHeader([]string{"id", "name", "ies"})
	for _, l := range layouts {
		table.Append([]string{
			fmt.Sprintf("%d", l.ID),
			l.Name,
			fmt.Sprintf("%d", len(l.IEs)),
		})
	}
	table.Render()
}
