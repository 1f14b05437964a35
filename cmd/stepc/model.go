package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/J-F-Liu/iso-10303/linker"
	"github.com/J-F-Liu/iso-10303/parser"
	"github.com/J-F-Liu/iso-10303/reporter"
)

func newModelCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "model schema.exp",
		Short: "Print the analyzed model of the schemas in a file as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			h := reporter.NewHandler(root.reporter())
			file, err := parser.Parse(args[0], f, h)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, schema := range file.Schemas {
				res, err := linker.Link(schema, h)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out, "---")
				}
				if err := res.WriteYAML(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
