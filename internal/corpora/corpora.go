// Package corpora provides a mechanism for managing test corpora, i.e.,
// a collection of files that define some kind of compiler test.
package corpora

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// A Corpus describes a test data corpus. This is essentially a way for doing
// table-driven tests where the "table" is in your file system.
type Corpus struct {
	// The root of the test data directory. This path is relative to the file
	// that calls [Corpus.Run].
	Root string

	// An environment variable holding a glob of test names to refresh. The
	// outputs of matching tests are rewritten instead of compared, and the
	// run fails so that refreshing is never mistaken for passing.
	Refresh string

	// The file extension (without a dot) of files which define a test case,
	// e.g. "exp".
	Extension string
	// Possible outputs of the test, which are found using Output.Extension.
	// A missing output file is treated as expecting the empty string.
	Outputs []Output

	// Test executes one test case of the corpus. It returns one string per
	// element of Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Run runs every test case found under Root as a subtest.
func (c Corpus) Run(t *testing.T) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)
	t.Logf("corpora: searching for files in %q", root)

	tests, err := doublestar.Glob(os.DirFS(root), "**/*."+c.Extension)
	if err != nil {
		t.Fatal("corpora: error while searching test data:", err)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpora: refreshing test data because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, test := range tests {
		path := filepath.Join(root, filepath.FromSlash(test))
		name, _ := filepath.Rel(testDir, path)
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: error while loading input file %q: %v", path, err)
			}

			results := c.Test(t, name, string(data))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, want %d", len(results), len(c.Outputs))
			}

			refresh, _ := doublestar.Match(refresh, filepath.ToSlash(name))
			for i, output := range c.Outputs {
				path := fmt.Sprint(path, ".", output.Extension)
				if refresh {
					writeOutput(t, path, results[i])
					continue
				}

				want, err := os.ReadFile(path)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: error while loading output file %q: %v", path, err)
					continue
				}
				cmp := output.Compare
				if cmp == nil {
					cmp = defaultCompare
				}
				if msg := cmp(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %q:\n%s", path, msg)
				}
			}
		})
	}
}

func writeOutput(t *testing.T, path, result string) {
	if result == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Errorf("corpora: error while deleting output file %q: %v", path, err)
		}
		return
	}
	if err := os.WriteFile(path, []byte(result), 0o660); err != nil {
		t.Errorf("corpora: error while writing output file %q: %v", path, err)
	}
}

// Output represents the output of a test case.
type Output struct {
	// The extension of the output. This is a suffix to the name of the
	// testcase's main file; so if Corpus.Extension is "exp", and this is
	// "stderr", for a test "foo.exp" the test runner will look for files
	// named "foo.exp.stderr".
	Extension string

	// The comparison function for this output. May be nil, in which case the
	// values will be compared byte-for-byte.
	Compare Compare
}

// Compare is a comparison function between strings, used in [Output].
//
// Returns empty string if the strings match, otherwise returns an error message.
type Compare func(got, want string) string

// ContainsLines passes when every non-blank line of want is a line of got.
// Runs of blanks are collapsed on both sides first, so that expectations
// on generated code do not depend on gofmt's column alignment.
func ContainsLines(got, want string) string {
	have := map[string]bool{}
	for _, line := range strings.Split(got, "\n") {
		have[normalize(line)] = true
	}
	var missing []string
	for _, line := range strings.Split(want, "\n") {
		line = normalize(line)
		if line != "" && !have[line] {
			missing = append(missing, "  "+line)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("missing lines:\n%s\ngot:\n%s", strings.Join(missing, "\n"), got)
}

func normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

func defaultCompare(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	// Colorize the diff so it's easier to read. We're looking for lines that
	// start with a - or a +.
	lines := strings.Split(diff, "\n")
	for i, s := range lines {
		if strings.HasPrefix(s, "+") {
			lines[i] = "\033[1;92m" + s + "\033[0m"
		} else if strings.HasPrefix(s, "-") {
			lines[i] = "\033[1;91m" + s + "\033[0m"
		}
	}

	return strings.Join(lines, "\n")
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
