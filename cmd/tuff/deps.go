package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SirMathhman/Tuff-sub000/pkg/driver"
)

const pathDependencyVersion = "0.0.0-dev"

func runDepsInstall() int {
	return runDepsCommand("install", nil)
}

func runDepsUpdate(targets []string) int {
	return runDepsCommand("update", targets)
}

// runDepsCommand resolves the manifest in the working directory into
// tuff.lock. Install keeps entries that are still satisfied; update drops the
// named entries (or all of them) before resolving.
func runDepsCommand(action string, targets []string) int {
	label := "tuff deps " + action
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}
	cacheDir, err := resolveTuffHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}

	lockPath := filepath.Join(manifest.Root(), driver.LockfileFileName)
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "%s: lockfile root %q does not match manifest name %q\n", label, lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	installer := newDependencyInstaller(manifest, cacheDir)
	if action == "update" {
		refresh, err := updateSet(manifest, targets)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
			return 1
		}
		installer.refresh = refresh
	}

	changed, logs, err := installer.Install(lock)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}

	if !changed && !lockCreated {
		fmt.Fprintf(os.Stdout, "%s already up to date\n", driver.LockfileFileName)
		return 0
	}
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, err)
		return 1
	}
	verb := "Updated"
	if lockCreated {
		verb = "Created"
	}
	fmt.Fprintf(os.Stdout, "%s %s: %s\n", verb, driver.LockfileFileName, lock.Path)
	return 0
}

// updateSet returns the dependencies to refetch; nil targets mean all of them.
func updateSet(manifest *driver.Manifest, targets []string) (map[string]bool, error) {
	refresh := make(map[string]bool)
	if len(targets) == 0 {
		for _, name := range manifest.DependencyNames() {
			refresh[name] = true
		}
		return refresh, nil
	}
	for _, target := range targets {
		name := sanitizeName(target)
		if _, ok := manifest.Dependencies[name]; !ok {
			return nil, fmt.Errorf("dependency %q not declared in %s", target, driver.ManifestFileName)
		}
		refresh[name] = true
	}
	return refresh, nil
}

type resolvedPackage struct {
	pkg      *driver.LockedPackage
	manifest *driver.Manifest
	root     string
}

type dependencyInstaller struct {
	manifest     *driver.Manifest
	manifestRoot string
	cacheDir     string
	git          *gitFetcher
	// refresh names git dependencies whose locked pin is ignored.
	refresh   map[string]bool
	locked    map[string]*driver.LockedPackage
	resolved  map[string]*driver.LockedPackage
	resolving map[string]bool
	logs      []string
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string) *dependencyInstaller {
	return &dependencyInstaller{
		manifest:     manifest,
		manifestRoot: manifest.Root(),
		cacheDir:     cacheDir,
		git:          newGitFetcher(cacheDir),
		refresh:      map[string]bool{},
	}
}

// Install resolves every declared dependency, transitively, and replaces the
// lock's packages. It reports whether the package list changed.
func (d *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	d.logs = nil
	d.locked = make(map[string]*driver.LockedPackage, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg != nil {
			d.locked[pkg.Name] = pkg
		}
	}
	d.resolved = make(map[string]*driver.LockedPackage)
	d.resolving = make(map[string]bool)

	for _, name := range d.manifest.DependencyNames() {
		if err := d.installDependency(name, d.manifest.Dependencies[name].Clone(), d.manifestRoot); err != nil {
			return false, d.logs, err
		}
	}

	desired := make([]*driver.LockedPackage, 0, len(d.resolved))
	for _, pkg := range d.resolved {
		desired = append(desired, pkg)
	}
	sort.SliceStable(desired, func(i, j int) bool {
		return desired[i].Name < desired[j].Name
	})

	changed := len(desired) != len(d.locked)
	for _, pkg := range desired {
		if current, ok := d.locked[pkg.Name]; !ok || !current.Equal(pkg) {
			changed = true
		}
	}
	lock.Packages = desired
	return changed, d.logs, nil
}

// installDependency resolves name and then its own dependencies. base is the
// directory relative paths in spec are anchored to.
func (d *dependencyInstaller) installDependency(name string, spec *driver.DependencySpec, base string) error {
	if spec == nil {
		return fmt.Errorf("dependency %q has no descriptor", name)
	}
	name = sanitizeName(name)
	if _, done := d.resolved[name]; done {
		return nil
	}
	if d.resolving[name] {
		return fmt.Errorf("dependency cycle detected at %s", name)
	}
	d.resolving[name] = true
	defer delete(d.resolving, name)

	if spec.Path != "" && !filepath.IsAbs(spec.Path) {
		spec.Path = filepath.Join(base, filepath.FromSlash(spec.Path))
	}

	resolved, err := d.resolveDependency(name, spec)
	if err != nil {
		return err
	}
	pkg := resolved.pkg
	pkg.Dependencies = nil

	if resolved.manifest != nil {
		for _, child := range resolved.manifest.DependencyNames() {
			childSpec := resolved.manifest.Dependencies[child].Clone()
			if err := d.installDependency(child, childSpec, resolved.root); err != nil {
				return err
			}
			pkg.Dependencies = append(pkg.Dependencies, sanitizeName(child))
		}
		sort.Strings(pkg.Dependencies)
	}

	d.resolved[name] = pkg
	return nil
}

func (d *dependencyInstaller) resolveDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	switch {
	case spec.Path != "":
		return d.resolvePathDependency(name, spec)
	case spec.Git != "":
		return d.resolveGitDependency(name, spec)
	default:
		return nil, fmt.Errorf("dependency %q: must specify git or path", name)
	}
}

func (d *dependencyInstaller) resolvePathDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	abs, err := filepath.Abs(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: resolve path %q: %w", name, spec.Path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: expected directory at %s", name, abs)
	}

	depManifest, err := loadOptionalManifest(abs)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	version := pathDependencyVersion
	if depManifest != nil && depManifest.Version != "" {
		version = depManifest.Version
	}

	display := d.displayPath(abs)
	d.logs = append(d.logs, fmt.Sprintf("linked %s %s (%s)", name, version, display))
	return &resolvedPackage{
		pkg: &driver.LockedPackage{
			Name:    name,
			Version: version,
			Source:  "path:" + filepath.ToSlash(display),
		},
		manifest: depManifest,
		root:     abs,
	}, nil
}

func (d *dependencyInstaller) resolveGitDependency(name string, spec *driver.DependencySpec) (*resolvedPackage, error) {
	if d.git == nil {
		return nil, fmt.Errorf("dependency %q: git support unavailable", name)
	}

	if locked, ok := d.reusableGitPin(name, spec); ok {
		root := driver.GitCheckoutDir(d.cacheDir, name, locked.Version)
		depManifest, err := loadOptionalManifest(root)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		d.logs = append(d.logs, fmt.Sprintf("using locked %s %s", name, locked.Version))
		pkg := *locked
		return &resolvedPackage{pkg: &pkg, manifest: depManifest, root: root}, nil
	}

	pkg, root, err := d.git.Fetch(name, spec)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	depManifest, err := loadOptionalManifest(root)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	d.logs = append(d.logs, fmt.Sprintf("fetched %s %s", name, pkg.Version))
	return &resolvedPackage{pkg: pkg, manifest: depManifest, root: root}, nil
}

// reusableGitPin returns the locked entry for name when it still matches the
// manifest's URL and its checkout is present in the cache.
func (d *dependencyInstaller) reusableGitPin(name string, spec *driver.DependencySpec) (*driver.LockedPackage, bool) {
	if d.refresh[name] {
		return nil, false
	}
	locked, ok := d.locked[name]
	if !ok {
		return nil, false
	}
	url, _, found := cutLast(strings.TrimPrefix(locked.Source, "git+"), "@")
	if !found || !strings.HasPrefix(locked.Source, "git+") || url != strings.TrimSpace(spec.Git) {
		return nil, false
	}
	_, descriptor := gitRevisionFromSpec(spec)
	pinned, _, tagged := cutLast(locked.Version, "@")
	if !tagged {
		pinned = locked.Version
		if spec.Tag != "" || spec.Branch != "" {
			return nil, false
		}
	}
	if descriptor != "" && pinned != descriptor {
		return nil, false
	}
	if descriptor == "" && tagged {
		return nil, false
	}
	if _, err := os.Stat(driver.GitCheckoutDir(d.cacheDir, name, locked.Version)); err != nil {
		return nil, false
	}
	return locked, true
}

func (d *dependencyInstaller) displayPath(path string) string {
	if d.manifestRoot != "" {
		if rel, err := filepath.Rel(d.manifestRoot, path); err == nil {
			return rel
		}
	}
	return path
}

// loadOptionalManifest reads dir/tuff.yml if present.
func loadOptionalManifest(dir string) (*driver.Manifest, error) {
	path := filepath.Join(dir, driver.ManifestFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

func cutLast(s, sep string) (string, string, bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	return strings.ReplaceAll(name, "-", "_")
}
