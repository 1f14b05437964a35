package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	iso10303 "github.com/J-F-Liu/iso-10303"
	"github.com/J-F-Liu/iso-10303/codegen"
	"github.com/J-F-Liu/iso-10303/config"
)

type generateOptions struct {
	configPath    string
	out           string
	pkg           string
	runtimeImport string
	parallelism   int
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [schema.exp ...]",
		Short: "Generate a Go reader for every schema of the given files",
		Long: `Generate a Go reader for every schema of the given files.

Each schema is written to <out>/<package>/<schema>.go. Without arguments the
schemas listed in the configuration file are compiled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd, root, cfg, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a stepc.yaml configuration file")
	flags.StringVarP(&opts.out, "out", "o", "", "Directory to write generated packages under")
	flags.StringVarP(&opts.pkg, "package", "p", "", "Package name of the generated code")
	flags.StringVar(&opts.runtimeImport, "runtime-import", "", "Import path of the step runtime")
	flags.IntVarP(&opts.parallelism, "parallelism", "j", 0, "Number of schemas compiled at once")
	return cmd
}

// config loads the configuration file, then applies the environment and
// then the flags that were set.
func (o *generateOptions) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Out = o.out
	}
	if flags.Changed("package") {
		cfg.Package = o.pkg
	}
	if flags.Changed("runtime-import") {
		cfg.RuntimeImport = o.runtimeImport
	}
	if flags.Changed("parallelism") {
		cfg.MaxParallelism = o.parallelism
	}
	return cfg, cfg.Validate()
}

func runGenerate(cmd *cobra.Command, root *rootOptions, cfg *config.Config, files []string) error {
	if len(files) == 0 {
		var err error
		if files, err = cfg.Paths(); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return errors.New("no schema files given")
	}
	root.logger.Debug("compiling", "files", len(files), "parallelism", cfg.MaxParallelism)

	comp := iso10303.Compiler{
		Resolver:       &iso10303.SourceResolver{},
		MaxParallelism: cfg.MaxParallelism,
		Reporter:       root.reporter(),
		Generate: &codegen.Options{
			Package:       cfg.Package,
			RuntimeImport: cfg.RuntimeImport,
		},
	}
	results, err := comp.Compile(cmd.Context(), files...)
	if err != nil {
		return err
	}

	written := map[string]string{}
	for _, res := range results {
		for _, f := range res.Generated {
			dir := filepath.Join(cfg.Out, f.Package)
			path := filepath.Join(dir, f.Name)
			if prev, ok := written[path]; ok {
				if prev == res.Path {
					continue
				}
				return fmt.Errorf("%s and %s both generate %s", prev, res.Path, path)
			}
			written[path] = res.Path
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, f.Content, 0o644); err != nil {
				return err
			}
			root.logger.Info("generated", "schema", f.Package, "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
	}
	return nil
}
