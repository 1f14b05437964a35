// Command stepc compiles EXPRESS schemas into Go readers for STEP exchange
// files, and inspects schemas and exchange files.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/J-F-Liu/iso-10303/reporter"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "stepc",
		Short:         "Compile EXPRESS schemas into Go readers for STEP files",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress and details")

	root.AddCommand(
		newGenerateCmd(opts),
		newModelCmd(opts),
		newInspectCmd(opts),
	)
	return root
}

// reporter returns a reporter that fails on the first error and logs
// warnings.
func (o *rootOptions) reporter() reporter.Reporter {
	return reporter.NewReporter(nil, func(err reporter.ErrorWithPos) {
		o.logger.Warn(err.Unwrap().Error(), "pos", err.GetPosition().String())
	})
}

// renderError prints err, with the source line it points at when the file
// can be read.
func renderError(w io.Writer, err error) {
	var source []byte
	if pos, ok := reporter.SourcePosOf(err); ok && pos.Filename != "" {
		source, _ = os.ReadFile(pos.Filename)
	}
	_ = reporter.Render(w, err, source)
}
