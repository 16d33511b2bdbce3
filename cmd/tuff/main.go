package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docopt/docopt-go"

	"github.com/SirMathhman/Tuff-sub000/pkg/driver"
	"github.com/SirMathhman/Tuff-sub000/pkg/interpreter"
	"github.com/SirMathhman/Tuff-sub000/pkg/parser"
	"github.com/SirMathhman/Tuff-sub000/pkg/runtime"
)

const cliToolVersion = "tuff 0.1.0"

const usage = `tuff - interpreter for the tuff language

Usage:
  tuff run [<path>]
  tuff eval <source>
  tuff repl
  tuff test [<paths>...]
  tuff deps install
  tuff deps update [<dep>...]
  tuff parse <path>
  tuff -h | --help
  tuff --version

Options:
  -h --help  Show this help.
  --version  Print the tool version.

Environment:
  TUFF_HOME  Dependency cache (default ~/.tuff).
  TUFF_PATH  Extra directories searched for units nobody else defines.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var helpText string
	var helpErr error
	p := &docopt.Parser{
		HelpHandler: func(err error, usage string) {
			helpText = usage
			helpErr = err
		},
	}
	opts, err := p.ParseArgs(usage, args, cliToolVersion)
	if helpText != "" {
		if helpErr != nil {
			fmt.Fprintln(os.Stderr, helpText)
			return 2
		}
		fmt.Fprintln(os.Stdout, helpText)
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	switch {
	case flag(opts, "run"):
		path, _ := opts["<path>"].(string)
		return runProgram(path)
	case flag(opts, "eval"):
		source, _ := opts["<source>"].(string)
		return runEval(source)
	case flag(opts, "repl"):
		return runRepl()
	case flag(opts, "test"):
		paths, _ := opts["<paths>"].([]string)
		return runTest(paths)
	case flag(opts, "deps"):
		if flag(opts, "update") {
			deps, _ := opts["<dep>"].([]string)
			return runDepsUpdate(deps)
		}
		return runDepsInstall()
	case flag(opts, "parse"):
		path, _ := opts["<path>"].(string)
		return runParse(path)
	}
	fmt.Fprint(os.Stderr, usage+"\n")
	return 2
}

func flag(opts docopt.Opts, name string) bool {
	ok, _ := opts.Bool(name)
	return ok
}

// runProgram evaluates the program rooted at path. A manifest above path
// decides the unit set; otherwise path and its sibling files are used.
func runProgram(path string) int {
	if path == "" {
		path = "."
	}
	sources, err := loadProgram(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuff run: %v\n", err)
		return 1
	}
	result, err := interpreter.EvaluateProgram(sources.Main, sources.Units)
	if err != nil {
		reportEvalError("tuff run", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, result)
	return 0
}

func loadProgram(path string) (*driver.SourceSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		manifestPath, err := driver.FindManifest(path)
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				return driver.LoadSourcesFromFile(path, extraSearchPaths()...)
			}
			return nil, err
		}
		return loadManifestProgram(manifestPath, path)
	}
	manifestPath, err := driver.FindManifest(path)
	if err != nil {
		return nil, err
	}
	return loadManifestProgram(manifestPath, "")
}

// loadManifestProgram loads the project owning manifestPath. A non-empty
// entry file replaces the manifest's main unit.
func loadManifestProgram(manifestPath, entry string) (*driver.SourceSet, error) {
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if entry != "" {
		abs, err := filepath.Abs(entry)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
		manifest.Main = name
		manifest.Modules[name] = abs
	}
	lock, err := driver.LoadLockfileForManifest(manifest)
	if err != nil {
		return nil, err
	}
	cacheDir, err := resolveTuffHome()
	if err != nil {
		return nil, err
	}
	return driver.LoadSources(manifest, lock, cacheDir, extraSearchPaths()...)
}

func runEval(source string) int {
	result, err := interpreter.EvaluateOne(source)
	if err != nil {
		reportEvalError("tuff eval", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, result)
	return 0
}

func runParse(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuff parse: %v\n", err)
		return 1
	}
	mod, err := parser.ParseModule(string(data))
	if err != nil {
		var synErr *parser.SyntaxError
		if errors.As(err, &synErr) {
			fmt.Fprintf(os.Stderr, "tuff parse: %s: %s\n", path, synErr.Describe())
		} else {
			fmt.Fprintf(os.Stderr, "tuff parse: %v\n", err)
		}
		return 1
	}
	out, err := json.MarshalIndent(mod, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "tuff parse: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, string(out))
	return 0
}

func reportEvalError(label string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", label, describeError(err))
}

func describeError(err error) string {
	var evalErr *runtime.Error
	if errors.As(err, &evalErr) {
		return fmt.Sprintf("%s error: %s", evalErr.Kind, evalErr.Message)
	}
	return err.Error()
}
