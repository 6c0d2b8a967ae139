// Package fixtures runs conformance programs described in YAML files.
//
// A file holds a list of cases:
//
//	- name: counter
//	  source: |
//	    i := 0
//	    while i < 3 do { print i; i := i + 1 }
//	  output: ["0", "1", "2"]
//	  value: "3"
//
// `input` feeds integers to the program, `output` lists the printed lines,
// `value` is the expected text of the result and `error` names the expected
// error kind. Fields left out are not checked.
package fixtures

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"oomph/pkg/eval"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

type Case struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	Input  []int64  `yaml:"input,omitempty"`
	Output []string `yaml:"output,omitempty"`
	Value  *string  `yaml:"value,omitempty"`
	Error  string   `yaml:"error,omitempty"`

	// File is the path the case was loaded from.
	File string `yaml:"-"`
}

type Result struct {
	Case   *Case
	Passed bool
	Reason string
}

// Load reads the cases in one YAML file.
func Load(path string) ([]*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cases []*Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, c := range cases {
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		if c.Error != "" {
			if _, ok := eval.ParseErrorKind(c.Error); !ok {
				return nil, fmt.Errorf("%s: %s: unknown error kind %q", path, c.Name, c.Error)
			}
		}
		c.File = path
	}
	return cases, nil
}

// LoadDir loads every *.yaml and *.yml file under dir in path order.
func LoadDir(dir string) ([]*Case, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	var all []*Case
	for _, path := range paths {
		cases, err := Load(path)
		if err != nil {
			return nil, err
		}
		all = append(all, cases...)
	}
	return all, nil
}

// Run evaluates a case in a fresh environment and compares the outcome.
func Run(c *Case, opts ...eval.Option) Result {
	var out bytes.Buffer
	opts = append([]eval.Option{
		eval.WithOutput(&out),
		eval.WithInput(eval.NewQueueInput(c.Input...)),
	}, opts...)
	it := eval.New(opts...)

	result, _, err := it.EvalSource(c.Source, eval.NewEnvironment())
	fail := func(format string, a ...any) Result {
		return Result{Case: c, Reason: fmt.Sprintf(format, a...)}
	}

	if c.Error != "" {
		if err == nil {
			return fail("expected %s, got %s", c.Error, result.Inspect())
		}
		var evalErr *eval.Error
		if !errors.As(err, &evalErr) {
			return fail("expected %s, got %v", c.Error, err)
		}
		if evalErr.Kind.String() != c.Error {
			return fail("expected %s, got %v", c.Error, err)
		}
	} else if err != nil {
		return fail("%v", err)
	}

	if c.Output != nil {
		got := splitLines(out.String())
		if !slices.Equal(got, c.Output) {
			return fail("output wrong. expected=%q, got=%q\n%s", c.Output, got, outputDiff(c.Output, got))
		}
	}

	if c.Value != nil && err == nil {
		if got := result.Inspect(); got != *c.Value {
			return fail("value wrong. expected=%q, got=%q", *c.Value, got)
		}
	}

	return Result{Case: c, Passed: true}
}

// RunAll runs cases in order.
func RunAll(cases []*Case, opts ...eval.Option) []Result {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		results = append(results, Run(c, opts...))
	}
	return results
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

// outputDiff renders a line diff, "-" for expected lines and "+" for
// printed ones.
func outputDiff(want, got []string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(want), joinLines(got))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String()
}

func joinLines(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l + "\n")
	}
	return sb.String()
}
