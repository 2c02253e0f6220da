// Package shell locates a POSIX-compatible command interpreter, including
// the Windows search for a POSIX-emulation layer installation.
package shell

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pagemark/docview/internal/messages"
	"github.com/pagemark/docview/internal/prompt"
)

// ErrNoUsableShell reports that no POSIX shell could be found. Without a
// shell no build is possible at all.
var ErrNoUsableShell = errors.New("no usable POSIX shell found")

// Kind classifies how a shell was found.
type Kind int

const (
	// Posix is a shell found on the regular command path.
	Posix Kind = iota

	// Emulated is a shell inside a Windows POSIX-emulation installation.
	Emulated
)

// Shell is a resolved command interpreter.
type Shell struct {
	Path string
	Kind Kind

	// EmulationRoot is the emulation layer's installation root, set only
	// for Emulated shells. Unix-style absolute paths produced inside the
	// emulation layer live under this root on the host filesystem.
	EmulationRoot string
}

// profileEnv forces the emulation-layer shell to source its profile. It is
// injected into child processes only, never into the parent environment.
const profileEnv = "BASH_ENV=/etc/profile"

// ChildEnv returns the environment a child process of this shell should
// run with, derived from base.
func (s Shell) ChildEnv(base []string) []string {
	env := make([]string, len(base))
	copy(env, base)
	if s.Kind == Emulated {
		env = append(env, profileEnv)
	}
	return env
}

// ExecutableName appends the platform executable suffix for this shell's
// platform to name.
func (s Shell) ExecutableName(name string) string {
	if s.Kind == Emulated {
		return name + ".exe"
	}
	return name
}

// emulationSubdirs are the conventional installation directory names probed
// on every drive letter.
var emulationSubdirs = []string{"msys64", "msys32"}

// Resolver finds a usable shell. The zero value is not usable; use
// NewResolver.
type Resolver struct {
	// LookPath searches the command path. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)

	// Stat defaults to os.Stat.
	Stat func(name string) (os.FileInfo, error)

	// GOOS defaults to runtime.GOOS.
	GOOS string

	// Prompter, when set, is asked once for the emulation directory if the
	// drive scan finds nothing. Nil means non-interactive: the question is
	// skipped and resolution fails.
	Prompter prompt.Prompter

	mu     sync.Mutex
	cached *Shell
}

// NewResolver returns a Resolver using the real command path and filesystem.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve finds a POSIX shell. The command path is searched first; on
// Windows a missing shell falls back to scanning conventional emulation
// layer installation roots across all drive letters, then to a single
// interactive prompt. A successful emulated resolution is cached for the
// life of the process so the user is never re-prompted.
func (r *Resolver) Resolve() (Shell, error) {
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath("sh"); err == nil {
		return Shell{Path: path, Kind: Posix}, nil
	}

	goos := r.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos != "windows" {
		return Shell{}, ErrNoUsableShell
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached != nil {
		return *r.cached, nil
	}

	if sh, ok := r.scanDrives(); ok {
		r.cached = &sh
		return sh, nil
	}

	sh, err := r.promptForRoot()
	if err != nil {
		return Shell{}, err
	}
	r.cached = &sh
	return sh, nil
}

// scanDrives probes every drive letter c-z for a conventional emulation
// installation containing the bash binary.
func (r *Resolver) scanDrives() (Shell, bool) {
	for drive := 'c'; drive <= 'z'; drive++ {
		for _, sub := range emulationSubdirs {
			root := fmt.Sprintf("%c:/%s", drive, sub)
			if sh, ok := r.shellAt(root); ok {
				return sh, true
			}
		}
	}
	return Shell{}, false
}

// promptForRoot asks the user once for the emulation installation directory.
func (r *Resolver) promptForRoot() (Shell, error) {
	if r.Prompter == nil {
		return Shell{}, ErrNoUsableShell
	}
	dir, err := r.Prompter.ChooseDirectory(messages.ShellEmulationDirPrompt, "")
	if err != nil {
		return Shell{}, fmt.Errorf("%w: %v", ErrNoUsableShell, err)
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return Shell{}, ErrNoUsableShell
	}
	if sh, ok := r.shellAt(dir); ok {
		return sh, nil
	}
	return Shell{}, fmt.Errorf("%w: %s", ErrNoUsableShell, fmt.Sprintf(messages.ShellEmulationDirInvalidFmt, dir))
}

// shellAt reports the emulated shell under root, if present.
func (r *Resolver) shellAt(root string) (Shell, bool) {
	stat := r.Stat
	if stat == nil {
		stat = os.Stat
	}
	bash := filepath.Join(root, "usr", "bin", "bash.exe")
	info, err := stat(bash)
	if err != nil || info.IsDir() {
		return Shell{}, false
	}
	return Shell{Path: bash, Kind: Emulated, EmulationRoot: root}, true
}
