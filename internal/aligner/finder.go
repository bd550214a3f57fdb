package aligner

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultKnownPaths are checked, in order, before falling back to PATH.
// {name} is replaced with the executable name.
var DefaultKnownPaths = []string{
	"~/.local/bin/{name}",      // user install
	"/opt/homebrew/bin/{name}", // Apple Silicon Mac (Homebrew)
	"/usr/local/bin/{name}",    // Intel Mac / Linux source builds
	"/usr/bin/{name}",          // distro packages (apt install exonerate)
}

// resolvedPaths caches successful lookups shared by every Exonerate runner.
var resolvedPaths = cache.New(5*time.Minute, 10*time.Minute)

// ExecutableFinder locates an executable by name.
type ExecutableFinder struct {
	name       string
	knownPaths []string
	cache      *cache.Cache
}

// FinderOption configures an ExecutableFinder.
type FinderOption func(*ExecutableFinder)

// WithKnownPaths sets the path templates checked before PATH.
func WithKnownPaths(paths ...string) FinderOption {
	return func(f *ExecutableFinder) {
		f.knownPaths = paths
	}
}

// WithCache remembers successful lookups in c.
func WithCache(c *cache.Cache) FinderOption {
	return func(f *ExecutableFinder) {
		f.cache = c
	}
}

// NewExecutableFinder creates a finder for name.
func NewExecutableFinder(name string, opts ...FinderOption) *ExecutableFinder {
	f := &ExecutableFinder{name: name}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find returns the path of the executable. A name containing a path
// separator is used as is. The returned error wraps ErrExecutableNotFound.
func (f *ExecutableFinder) Find() (string, error) {
	if f.name == "" {
		return "", fmt.Errorf("%w: empty executable name", ErrExecutableNotFound)
	}

	key := f.cacheKey()
	if f.cache != nil {
		if v, ok := f.cache.Get(key); ok {
			return v.(string), nil
		}
	}

	path, err := f.find()
	if err != nil {
		return "", err
	}
	if f.cache != nil {
		f.cache.SetDefault(key, path)
	}
	return path, nil
}

func (f *ExecutableFinder) find() (string, error) {
	if strings.ContainsRune(f.name, os.PathSeparator) || strings.ContainsRune(f.name, '/') {
		if isExecutable(f.name) {
			return f.name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrExecutableNotFound, f.name)
	}

	checked := make([]string, 0, len(f.knownPaths))
	for _, tmpl := range f.knownPaths {
		candidate := f.expand(tmpl)
		checked = append(checked, candidate)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(f.name); err == nil {
		return path, nil
	}

	if len(checked) == 0 {
		return "", fmt.Errorf("%w: %q not in PATH", ErrExecutableNotFound, f.name)
	}
	return "", fmt.Errorf("%w: %q not in %s or PATH", ErrExecutableNotFound, f.name, strings.Join(checked, ", "))
}

func (f *ExecutableFinder) expand(tmpl string) string {
	name := f.name
	if runtime.GOOS == "windows" && !strings.HasSuffix(name, ".exe") {
		name += ".exe"
	}
	p := strings.ReplaceAll(tmpl, "{name}", name)
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.FromSlash(p)
}

func (f *ExecutableFinder) cacheKey() string {
	return f.name + "\x00" + strings.Join(f.knownPaths, "\x00")
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
