package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/michaelmacinnis/adapted"
)

type RootKind int

const (
	// RootProject units come from the program being run.
	RootProject RootKind = iota
	// RootDependency units come from a locked dependency.
	RootDependency
	// RootExtra roots (TUFF_PATH) only supply units nobody else defines.
	RootExtra
)

// SearchPath describes a directory that contributes source units.
type SearchPath struct {
	Path string
	Kind RootKind
	// Flat limits the scan to the directory itself.
	Flat bool
	// Include filters files by slash-separated path relative to Path.
	Include []string
}

// SourceSet is the unit map handed to the interpreter.
type SourceSet struct {
	Main  string
	Units map[string]string
	// Files records where each unit was read from.
	Files map[string]string
}

// Names returns the unit names in sorted order.
func (s *SourceSet) Names() []string {
	names := make([]string, 0, len(s.Units))
	for name := range s.Units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loader collects tuff source units from a list of search roots.
type Loader struct {
	searchPaths []SearchPath
	overrides   map[string]string
}

// NewLoader constructs a loader; duplicate roots are dropped.
func NewLoader(searchPaths []SearchPath) (*Loader, error) {
	unique := make([]SearchPath, 0, len(searchPaths))
	seen := make(map[string]struct{}, len(searchPaths))
	for _, sp := range searchPaths {
		if sp.Path == "" {
			continue
		}
		abs, err := filepath.Abs(sp.Path)
		if err != nil {
			return nil, fmt.Errorf("loader: resolve search path %q: %w", sp.Path, err)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		sp.Path = abs
		unique = append(unique, sp)
	}
	return &Loader{searchPaths: unique, overrides: map[string]string{}}, nil
}

// Override binds a unit name to an explicit file, taking precedence over
// anything found by scanning.
func (l *Loader) Override(name, file string) {
	l.overrides[name] = file
}

// Load reads every unit reachable from the search roots. The main unit must
// be among them.
func (l *Loader) Load(main string) (*SourceSet, error) {
	set := &SourceSet{Main: main, Units: map[string]string{}, Files: map[string]string{}}
	for _, sp := range l.searchPaths {
		files, err := scanRoot(sp)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			name := unitNameFor(file)
			if name == "" {
				continue
			}
			if _, overridden := l.overrides[name]; overridden {
				continue
			}
			if existing, ok := set.Files[name]; ok {
				if sp.Kind == RootExtra {
					continue
				}
				return nil, fmt.Errorf("loader: module %q defined in both %s and %s", name, existing, file)
			}
			if err := set.add(name, file); err != nil {
				return nil, err
			}
		}
	}
	for _, name := range sortedKeys(l.overrides) {
		if err := set.add(name, l.overrides[name]); err != nil {
			return nil, err
		}
	}
	if _, ok := set.Units[main]; !ok {
		return nil, fmt.Errorf("loader: main module %q not found", main)
	}
	return set, nil
}

func (s *SourceSet) add(name, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("loader: read %s: %w", file, err)
	}
	s.Units[name] = string(data)
	s.Files[name] = file
	return nil
}

func scanRoot(sp SearchPath) ([]string, error) {
	info, err := os.Stat(sp.Path)
	if err != nil {
		return nil, fmt.Errorf("loader: search path %s: %w", sp.Path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("loader: search path %s is not a directory", sp.Path)
	}
	var files []string
	err = filepath.WalkDir(sp.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == sp.Path {
				return nil
			}
			if sp.Flat || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != SourceExtension {
			return nil
		}
		rel, err := filepath.Rel(sp.Path, path)
		if err != nil {
			return err
		}
		ok, err := included(sp.Include, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loader: scan %s: %w", sp.Path, err)
	}
	sort.Strings(files)
	return files, nil
}

func included(patterns []string, rel string) (bool, error) {
	if len(patterns) == 0 {
		return true, nil
	}
	for _, pattern := range patterns {
		ok, err := adapted.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// unitNameFor derives a unit name from a file stem, or "" when the stem
// cannot be named in a use statement.
func unitNameFor(file string) string {
	stem := sanitizeSegment(strings.TrimSuffix(filepath.Base(file), SourceExtension))
	if !isUnitName(stem) {
		return ""
	}
	return stem
}

// LoadSources collects the units of a manifest-driven program: the project
// tree filtered by its include patterns, explicit module overrides, locked
// dependencies and finally any extra roots.
func LoadSources(manifest *Manifest, lock *Lockfile, cacheDir string, extra ...string) (*SourceSet, error) {
	if manifest == nil {
		return nil, fmt.Errorf("loader: nil manifest")
	}
	root := manifest.Root()
	paths := []SearchPath{{Path: root, Kind: RootProject, Include: manifest.Include}}
	if lock != nil {
		for _, pkg := range lock.Packages {
			dir, err := ResolvePackageDir(pkg, root, cacheDir)
			if err != nil {
				return nil, err
			}
			paths = append(paths, SearchPath{Path: dir, Kind: RootDependency})
		}
	}
	for _, dir := range extra {
		paths = append(paths, SearchPath{Path: dir, Kind: RootExtra})
	}
	loader, err := NewLoader(paths)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(manifest.Modules) {
		file := manifest.Modules[name]
		if !filepath.IsAbs(file) {
			file = filepath.Join(root, file)
		}
		loader.Override(name, file)
	}
	return loader.Load(manifest.Main)
}

// LoadSourcesFromFile runs without a manifest: the file is the main unit and
// its sibling .tuff files are importable.
func LoadSourcesFromFile(path string, extra ...string) (*SourceSet, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	main := unitNameFor(abs)
	if main == "" || filepath.Ext(abs) != SourceExtension {
		return nil, fmt.Errorf("loader: %s is not a %s file with a valid unit name", path, SourceExtension)
	}
	paths := []SearchPath{{Path: filepath.Dir(abs), Kind: RootProject, Flat: true}}
	for _, dir := range extra {
		paths = append(paths, SearchPath{Path: dir, Kind: RootExtra})
	}
	loader, err := NewLoader(paths)
	if err != nil {
		return nil, err
	}
	return loader.Load(main)
}

// ResolvePackageDir maps a locked package onto the directory holding its units.
func ResolvePackageDir(pkg *LockedPackage, manifestRoot, cacheDir string) (string, error) {
	if pkg == nil {
		return "", fmt.Errorf("loader: nil locked package")
	}
	source := strings.TrimSpace(pkg.Source)
	switch {
	case strings.HasPrefix(source, "path:"):
		dir := strings.TrimSpace(strings.TrimPrefix(source, "path:"))
		if dir == "" {
			return "", fmt.Errorf("loader: package %s has an empty path source", pkg.Name)
		}
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir), nil
		}
		return filepath.Join(manifestRoot, filepath.FromSlash(dir)), nil
	case strings.HasPrefix(source, "git+"):
		if cacheDir == "" {
			return "", fmt.Errorf("loader: package %s needs a dependency cache", pkg.Name)
		}
		return GitCheckoutDir(cacheDir, pkg.Name, pkg.Version), nil
	default:
		return "", fmt.Errorf("loader: package %s has unsupported source %q", pkg.Name, source)
	}
}

// GitCheckoutDir is where a pinned git dependency lives inside the cache.
func GitCheckoutDir(cacheDir, name, version string) string {
	return filepath.Join(cacheDir, "pkg", "src", sanitizeSegment(name), SanitizePathSegment(version))
}

// SanitizePathSegment makes a version string safe to use as a directory name.
func SanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
