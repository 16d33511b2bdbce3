package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestBasic(t *testing.T) {
	path := writeManifest(t, `
name: geometry-demo
version: "0.1.0"
main: app
modules:
  shapes: lib/shapes.tuff
include:
  - "*.tuff"
  - "src/*.tuff"
dependencies:
  util: ../util
  vectors:
    git: https://example.com/vectors.git
    tag: v1.2.0
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if got, want := manifest.Name, "geometry_demo"; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if manifest.Main != "app" || manifest.Version != "0.1.0" {
		t.Fatalf("unexpected main/version: %q %q", manifest.Main, manifest.Version)
	}
	if got := manifest.Modules["shapes"]; got != filepath.FromSlash("lib/shapes.tuff") {
		t.Fatalf("modules.shapes = %q", got)
	}
	if got := strings.Join(manifest.Include, ","); got != "*.tuff,src/*.tuff" {
		t.Fatalf("include = %q", got)
	}
	if util := manifest.Dependencies["util"]; util == nil || util.Path != "../util" {
		t.Fatalf("path shorthand not parsed: %#v", util)
	}
	if vectors := manifest.Dependencies["vectors"]; vectors == nil || vectors.Git == "" || vectors.Tag != "v1.2.0" {
		t.Fatalf("git dependency not parsed: %#v", vectors)
	}
	if got := strings.Join(manifest.DependencyNames(), ","); got != "util,vectors" {
		t.Fatalf("dependency names = %q", got)
	}
	if manifest.Root() != filepath.Dir(path) {
		t.Fatalf("Root = %q", manifest.Root())
	}
}

func TestLoadManifestDefaultsMain(t *testing.T) {
	manifest, err := LoadManifest(writeManifest(t, "name: demo\n"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Main != "main" {
		t.Fatalf("Main = %q, want main", manifest.Main)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := writeManifest(t, `
main: 9lives
modules:
  bad-name: x.tuff
include: "[oops"
dependencies:
  both:
    git: https://example.com/x.git
    path: ../x
    rev: abc
    tag: v1
  neither: {}
  pinned:
    path: ../p
    branch: main
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		"name must be provided",
		`main "9lives" is not a valid unit name`,
		"modules.bad-name: not a valid unit name",
		`include[0]: invalid pattern "[oops"`,
		"dependencies.both: path dependencies cannot also specify git",
		"dependencies.both: specify only one of rev, tag or branch",
		"dependencies.neither: must specify git or path",
		"dependencies.pinned: rev, tag and branch apply only to git dependencies",
	}
	if len(verr.Issues) != len(want) {
		t.Fatalf("expected %d issues, got %d:\n%s", len(want), len(verr.Issues), verr.Error())
	}
	for i := range want {
		if verr.Issues[i] != want[i] {
			t.Fatalf("issue %d = %q, want %q", i, verr.Issues[i], want[i])
		}
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, "name: demo\ntargets: {}\n"))
	if err == nil || !strings.Contains(err.Error(), "targets") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, ""))
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	path := writeManifest(t, "name: demo\n")
	nested := filepath.Join(filepath.Dir(path), "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if found != path {
		t.Fatalf("found %q, want %q", found, path)
	}
	if _, err := FindManifest(t.TempDir()); !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}
