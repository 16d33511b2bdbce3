package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SirMathhman/Tuff-sub000/pkg/interpreter"
)

const testFileSuffix = ".test.yml"

// testFile is the on-disk shape of a *.test.yml file.
type testFile struct {
	Cases []testCase `yaml:"cases"`
}

// testCase evaluates Source, or links Modules when present. Expect is the
// rendered result (with any printed lines after "|"); Error is the exact
// message of an expected failure.
type testCase struct {
	Name    string            `yaml:"name"`
	Source  string            `yaml:"source"`
	Modules map[string]string `yaml:"modules"`
	Main    string            `yaml:"main"`
	Expect  *string           `yaml:"expect"`
	Error   string            `yaml:"error"`
}

type testSummary struct {
	Passed int
	Failed int
}

func runTest(targets []string) int {
	files, err := collectTestFiles(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuff test: %v\n", err)
		return 2
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stdout, "tuff test: no test files found")
		return 0
	}

	var summary testSummary
	for _, file := range files {
		suite, err := loadTestFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tuff test: %v\n", err)
			return 2
		}
		for i, tc := range suite.Cases {
			name := tc.Name
			if name == "" {
				name = fmt.Sprintf("case %d", i+1)
			}
			if failure := tc.run(); failure != "" {
				summary.Failed++
				fmt.Fprintf(os.Stdout, "FAIL %s: %s\n    %s\n", file, name, failure)
				continue
			}
			summary.Passed++
			fmt.Fprintf(os.Stdout, "ok   %s: %s\n", file, name)
		}
	}

	fmt.Fprintf(os.Stdout, "%d passed, %d failed\n", summary.Passed, summary.Failed)
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

func loadTestFile(path string) (*testFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var suite testFile
	if err := dec.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return &suite, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &suite, nil
}

// run returns a failure description, or "" when the case passes.
func (tc testCase) run() string {
	got, err := tc.evaluate()
	if tc.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected error %q, got result %q", tc.Error, got)
		}
		if err.Error() != tc.Error {
			return fmt.Sprintf("expected error %q, got %q", tc.Error, err.Error())
		}
		return ""
	}
	if err != nil {
		return fmt.Sprintf("unexpected %s", describeError(err))
	}
	if tc.Expect != nil && got != *tc.Expect {
		return fmt.Sprintf("expected %q, got %q", *tc.Expect, got)
	}
	return ""
}

func (tc testCase) evaluate() (string, error) {
	if len(tc.Modules) == 0 {
		return interpreter.EvaluateOne(tc.Source)
	}
	main := tc.Main
	if main == "" {
		main = "main"
	}
	sources := make(map[string]string, len(tc.Modules)+1)
	for name, src := range tc.Modules {
		sources[name] = src
	}
	if tc.Source != "" {
		sources[main] = tc.Source
	}
	return interpreter.EvaluateProgram(main, sources)
}

func collectTestFiles(targets []string) ([]string, error) {
	if len(targets) == 0 {
		targets = []string{"."}
	}
	found := make(map[string]struct{})
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			found[filepath.Clean(target)] = struct{}{}
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && strings.HasSuffix(d.Name(), testFileSuffix) {
				found[filepath.Clean(path)] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	files := make([]string, 0, len(found))
	for file := range found {
		files = append(files, file)
	}
	sort.Strings(files)
	return files, nil
}
