// Package helper supervises the long-lived helper process: health probing,
// start/stop/restart of the stdio connection, and restart-on-replace
// watching of the installed binary.
package helper

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/pagemark/docview/internal/messages"
)

// DefaultProbeTimeout bounds the capability probe. The helper answers the
// features query immediately on a healthy installation.
const DefaultProbeTimeout = 5 * time.Second

// Probe verifies that the executable at path is present, executable, and
// responsive: it is started, sent the capability query, and must answer a
// line before the timeout. The probe process is always torn down.
func Probe(path string, timeout time.Duration) error {
	if path == "" {
		return fmt.Errorf(messages.HelperNotConfigured)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf(messages.HelperMissingFmt, path, err)
	}
	if info.IsDir() || (runtime.GOOS != "windows" && info.Mode()&0o111 == 0) {
		return fmt.Errorf(messages.HelperNotExecutableFmt, path)
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf(messages.HelperProbeFailedFmt, path, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf(messages.HelperProbeFailedFmt, path, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf(messages.HelperProbeFailedFmt, path, err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	if _, err := io.WriteString(stdin, "features\n"); err != nil {
		return fmt.Errorf(messages.HelperProbeFailedFmt, path, err)
	}

	answered := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(stdout)
		if scanner.Scan() {
			answered <- nil
			return
		}
		answered <- fmt.Errorf(messages.HelperProbeNoAnswerFmt, path)
	}()

	select {
	case err := <-answered:
		return err
	case <-time.After(timeout):
		return fmt.Errorf(messages.HelperProbeTimeoutFmt, path, timeout)
	}
}
