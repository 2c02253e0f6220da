// Package builder spawns the helper's build driver asynchronously and
// reports completion through a single-resolution Job handle.
package builder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"

	"github.com/pagemark/docview/internal/builddir"
	"github.com/pagemark/docview/internal/messages"
	"github.com/pagemark/docview/internal/shell"
)

// HelperName is the helper executable's base name. The platform suffix is
// appended per shell kind.
const HelperName = "epdfinfo"

// ErrInvalidBuildDir reports a build invoked with a missing or non-directory
// source path.
var ErrInvalidBuildDir = errors.New("invalid build directory")

// ErrQueryFailed reports that the build driver's install-directory query did
// not complete cleanly; the build is abandoned before anything is spawned.
var ErrQueryFailed = errors.New("build driver query failed")

// Options controls one build.
type Options struct {
	// Shell runs the build driver.
	Shell shell.Shell

	// TargetDir is the install directory. Empty means ask the build driver
	// for its default via the query invocation.
	TargetDir string

	// Log receives the build output. Defaults to io.Discard.
	Log io.Writer

	// Input, when set together with Interactive, is forwarded to the build
	// so it can answer prompts (installation typically asks for elevated
	// credentials).
	Input io.Reader

	// Interactive runs the build under a PTY so prompts reach the user.
	Interactive bool

	// OnComplete is invoked exactly once when the build process has exited:
	// with the executable path if the artifact exists at the expected
	// location, or with ok=false otherwise. Exit status and artifact
	// presence are judged independently.
	OnComplete func(execPath string, ok bool)
}

// Builder launches builds.
type Builder struct {
	// Stat defaults to os.Stat.
	Stat func(name string) (os.FileInfo, error)

	// Environ defaults to os.Environ.
	Environ func() []string
}

// Start validates buildDir, resolves the install target, and spawns the
// build driver asynchronously. The returned Job resolves when the process
// exits; Start itself returns as soon as the process is running.
func (b *Builder) Start(buildDir string, opts Options) (*Job, error) {
	info, err := b.stat(buildDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBuildDir, buildDir)
	}

	target := opts.TargetDir
	if target == "" {
		target, err = b.queryDefaultTarget(buildDir, opts.Shell)
		if err != nil {
			return nil, err
		}
	}

	log := opts.Log
	if log == nil {
		log = io.Discard
	}

	execPath := filepath.Join(target, opts.Shell.ExecutableName(HelperName))
	cmd := exec.Command(opts.Shell.Path, "-c", "./"+builddir.DriverScript+" -i "+shellQuote(target))
	cmd.Dir = buildDir
	cmd.Env = opts.Shell.ChildEnv(b.environ())

	var ptmx *os.File
	if opts.Interactive {
		ptmx, err = pty.Start(cmd)
		if err != nil {
			return nil, fmt.Errorf("start build under pty: %w", err)
		}
		go func() { _, _ = io.Copy(log, ptmx) }()
		if opts.Input != nil {
			go func() { _, _ = io.Copy(ptmx, opts.Input) }()
		}
	} else {
		cmd.Stdout = log
		cmd.Stderr = log
		if opts.Input != nil {
			cmd.Stdin = opts.Input
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start build: %w", err)
		}
	}

	job := newJob()
	go func() {
		waitErr := cmd.Wait()
		if ptmx != nil {
			_ = ptmx.Close()
		}
		if waitErr != nil {
			_, _ = fmt.Fprintf(log, messages.BuildProcessExitFmt, waitErr)
		}
		if b.isFile(execPath) {
			job.resolve(execPath, true, opts.OnComplete)
		} else {
			job.resolve("", false, opts.OnComplete)
		}
	}()
	return job, nil
}

// queryDefaultTarget asks the build driver for its default install
// directory. This is the one synchronous driver invocation; it is expected
// to be near-instant and must exit zero.
func (b *Builder) queryDefaultTarget(buildDir string, sh shell.Shell) (string, error) {
	cmd := exec.Command(sh.Path, "-c", "./"+builddir.DriverScript+" -n")
	cmd.Dir = buildDir
	cmd.Env = sh.ChildEnv(b.environ())
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	target := strings.TrimSpace(string(out))
	if target == "" {
		return "", fmt.Errorf("%w: %s", ErrQueryFailed, messages.BuildQueryEmptyOutput)
	}
	return remapTarget(target, sh), nil
}

// remapTarget maps a Unix-style path reported inside the emulation layer
// onto the host filesystem view rooted at the installation directory.
func remapTarget(target string, sh shell.Shell) string {
	if sh.Kind == shell.Emulated && strings.HasPrefix(target, "/") {
		return filepath.Join(sh.EmulationRoot, target)
	}
	return target
}

// shellQuote wraps s in single quotes for the driver invocation.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (b *Builder) stat(name string) (os.FileInfo, error) {
	if b.Stat != nil {
		return b.Stat(name)
	}
	return os.Stat(name)
}

func (b *Builder) environ() []string {
	if b.Environ != nil {
		return b.Environ()
	}
	return os.Environ()
}

func (b *Builder) isFile(name string) bool {
	info, err := b.stat(name)
	return err == nil && !info.IsDir()
}
