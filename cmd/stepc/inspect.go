package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/J-F-Liu/iso-10303/step"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	var parallelism int
	cmd := &cobra.Command{
		Use:   "inspect file.stp [file.stp ...]",
		Short: "Summarize the schemas and instances of exchange files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := step.ParseFiles(cmd.Context(), args, parallelism, root.reporter())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range files {
				if err := writeSummary(out, f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&parallelism, "parallelism", "j", 0, "Number of files parsed at once")
	return cmd
}

// writeSummary prints the schemas of f and how many instances of each
// entity type it holds. Every part of a complex instance counts.
func writeSummary(w io.Writer, f *step.ExchangeFile) error {
	counts := map[string]int{}
	for _, inst := range f.Data {
		for _, v := range inst.Values {
			counts[strings.ToUpper(v.TypeName)]++
		}
	}
	fmt.Fprintf(w, "%s\n", f.Name)
	fmt.Fprintf(w, "  schemas: %s\n", strings.Join(f.SchemaNames(), ", "))
	fmt.Fprintf(w, "  instances: %d\n", len(f.Data))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(tw, "    %s\t%d\n", name, counts[name])
	}
	return tw.Flush()
}
