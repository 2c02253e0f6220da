package helper

import (
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/pagemark/docview/internal/messages"
)

// Conn is the supervised connection to one helper process. The helper
// speaks a line protocol on stdio and idles until killed; Conn owns its
// lifecycle.
type Conn struct {
	mu       sync.Mutex
	execPath string
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	stdout   io.ReadCloser
	exited   chan struct{}

	watcher *binaryWatcher

	// OnExit, when set, runs after the helper process exits for any reason.
	OnExit func()
}

// NewConn creates a connection for the executable at path. The process is
// not started until Start.
func NewConn(path string) *Conn {
	return &Conn{execPath: path}
}

// Executable returns the configured executable path.
func (c *Conn) Executable() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execPath
}

// Running reports whether the helper process is alive.
func (c *Conn) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runningLocked()
}

func (c *Conn) runningLocked() bool {
	if c.exited == nil {
		return false
	}
	select {
	case <-c.exited:
		return false
	default:
		return true
	}
}

// Start spawns the helper process. Starting an already running connection
// is a no-op.
func (c *Conn) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked()
}

func (c *Conn) startLocked() error {
	if c.runningLocked() {
		return nil
	}
	if c.execPath == "" {
		return fmt.Errorf(messages.HelperNotConfigured)
	}

	cmd := exec.Command(c.execPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf(messages.HelperStartFailedFmt, c.execPath, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf(messages.HelperStartFailedFmt, c.execPath, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf(messages.HelperStartFailedFmt, c.execPath, err)
	}

	exited := make(chan struct{})
	c.cmd = cmd
	c.stdin = stdin
	c.stdout = stdout
	c.exited = exited

	onExit := c.OnExit
	go func() {
		_ = cmd.Wait()
		close(exited)
		if onExit != nil {
			onExit()
		}
	}()
	return nil
}

// Stop terminates the helper process and the binary watcher. Stopping a
// stopped connection is a no-op.
func (c *Conn) Stop() {
	c.mu.Lock()
	watcher := c.watcher
	c.watcher = nil
	cmd := c.cmd
	exited := c.exited
	running := c.runningLocked()
	c.cmd = nil
	c.stdin = nil
	c.stdout = nil
	c.exited = nil
	c.mu.Unlock()

	if watcher != nil {
		watcher.close()
	}
	if running && cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
		<-exited
	}
}

// Restart stops any running helper, switches to the executable at path, and
// starts it. Used after a rebuild replaces the binary.
func (c *Conn) Restart(path string) error {
	c.mu.Lock()
	cmd := c.cmd
	exited := c.exited
	running := c.runningLocked()
	c.cmd = nil
	c.stdin = nil
	c.stdout = nil
	c.exited = nil
	if path != "" {
		c.execPath = path
	}
	c.mu.Unlock()

	if running && cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
		<-exited
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked()
}

// Send writes one request line to the helper.
func (c *Conn) Send(line string) error {
	c.mu.Lock()
	stdin := c.stdin
	running := c.runningLocked()
	c.mu.Unlock()

	if !running || stdin == nil {
		return fmt.Errorf(messages.HelperNotRunning)
	}
	_, err := io.WriteString(stdin, line+"\n")
	return err
}
