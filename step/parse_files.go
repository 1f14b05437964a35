package step

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/J-F-Liu/iso-10303/reporter"
)

// ParseFiles parses independent exchange files concurrently, at most
// parallelism at a time (GOMAXPROCS when not positive). Results are in the
// order of paths. Every file gets its own handler built from rep, so a
// collecting reporter sees the diagnostics of all files. The first failure
// cancels the files not yet started and is returned.
func ParseFiles(ctx context.Context, paths []string, parallelism int, rep reporter.Reporter) ([]*ExchangeFile, error) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(-1)
	}
	files := make([]*ExchangeFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := ParseFile(path, reporter.NewHandler(rep))
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
