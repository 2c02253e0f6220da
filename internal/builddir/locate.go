// Package builddir resolves the helper's build-source directory from a
// fixed, ordered list of conventional locations.
package builddir

import (
	"os"
	"path/filepath"
)

const (
	// DriverScript is the build driver bundled with the helper sources.
	DriverScript = "autobuild"

	// PrimarySource is the helper's main source file. Requiring it alongside
	// the driver avoids false positives from unrelated directories that
	// merely contain something named "server".
	PrimarySource = "epdfinfo.c"
)

// Locator searches for a valid source tree.
type Locator struct {
	// WorkDir is the current working context's directory.
	WorkDir string

	// PackageDir is the directory this package is installed under; the
	// conventional server directories are resolved relative to it.
	PackageDir string

	// Stat defaults to os.Stat.
	Stat func(name string) (os.FileInfo, error)
}

// Candidates returns the search list in order. The first qualifying
// candidate wins; later ones are never consulted.
func (l Locator) Candidates() []string {
	return []string{
		l.WorkDir,
		filepath.Join(l.PackageDir, "build", "server"),
		filepath.Join(l.PackageDir, "server"),
		filepath.Join(l.PackageDir, "..", "server"),
	}
}

// Locate returns the first candidate containing both the build driver and
// the primary source file, or false when none qualifies.
func (l Locator) Locate() (string, bool) {
	for _, dir := range l.Candidates() {
		if dir == "" {
			continue
		}
		if l.qualifies(dir) {
			return dir, true
		}
	}
	return "", false
}

func (l Locator) qualifies(dir string) bool {
	return l.isFile(filepath.Join(dir, DriverScript)) &&
		l.isFile(filepath.Join(dir, PrimarySource))
}

func (l Locator) isFile(name string) bool {
	stat := l.Stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(name)
	return err == nil && !info.IsDir()
}
