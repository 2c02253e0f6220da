// Package installer drives the helper's install/uninstall lifecycle: health
// checking, triggering the build when needed, and wiring the feature
// registry into the session lifecycle.
package installer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pagemark/docview/internal/builddir"
	"github.com/pagemark/docview/internal/builder"
	"github.com/pagemark/docview/internal/config"
	"github.com/pagemark/docview/internal/feature"
	"github.com/pagemark/docview/internal/helper"
	"github.com/pagemark/docview/internal/messages"
	"github.com/pagemark/docview/internal/prompt"
	"github.com/pagemark/docview/internal/session"
	"github.com/pagemark/docview/internal/shell"
)

const (
	// ViewerMode is the major mode matching sessions are converted to.
	ViewerMode = "docview"

	// FallbackMode is the generic mode sessions revert to on uninstall.
	FallbackMode = "plain"
)

// Magic is the content signature that marks a document as belonging to this
// subsystem.
var Magic = []byte("%PDF")

// State is the installation lifecycle state.
type State int

const (
	Uninstalled State = iota
	Installed
)

// Options configures a Manager. Host is required; everything else has a
// usable default.
type Options struct {
	// Host is the session-management collaborator.
	Host session.Host

	// Config is the durable configuration. Defaults to an empty one.
	Config *config.Config

	// ConfigPath is where configuration changes are persisted. Empty
	// disables persistence.
	ConfigPath string

	// Prompter supplies user interaction. Nil means non-interactive: all
	// prompts are skipped.
	Prompter prompt.Prompter

	// Enabled is the enabled feature set. When empty, Config's
	// enabled_features applies, then the registry default.
	Enabled []feature.ID

	// Resolver finds the build shell.
	Resolver *shell.Resolver

	// Locator finds the build sources.
	Locator builddir.Locator

	// Builder runs builds.
	Builder *builder.Builder

	// Conn is an existing helper connection to restart after a rebuild.
	Conn *helper.Conn

	// Probe overrides the helper health probe.
	Probe func(path string) error

	// Warn receives one-line status messages. Defaults to os.Stderr.
	Warn io.Writer

	// BuildLog receives streamed build output.
	BuildLog io.Writer

	// BuildInput, with Interactive, lets the build ask the user questions.
	BuildInput io.Reader

	// Interactive runs builds under a PTY.
	Interactive bool
}

// Manager owns the process-wide installation state.
type Manager struct {
	mu    sync.Mutex
	state State

	host        session.Host
	cfg         *config.Config
	cfgPath     string
	prompter    prompt.Prompter
	enabled     []feature.ID
	resolver    *shell.Resolver
	locator     builddir.Locator
	builder     *builder.Builder
	conn        *helper.Conn
	probe       func(path string) error
	warn        io.Writer
	buildLog    io.Writer
	buildInput  io.Reader
	interactive bool

	ctrl       feature.Controller
	hookCancel func()
}

// New creates a Manager in the Uninstalled state.
func New(opts Options) *Manager {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	m := &Manager{
		host:        opts.Host,
		cfg:         cfg,
		cfgPath:     opts.ConfigPath,
		prompter:    opts.Prompter,
		enabled:     resolveEnabled(opts.Enabled, cfg),
		resolver:    opts.Resolver,
		locator:     opts.Locator,
		builder:     opts.Builder,
		conn:        opts.Conn,
		probe:       opts.Probe,
		warn:        opts.Warn,
		buildLog:    opts.BuildLog,
		buildInput:  opts.BuildInput,
		interactive: opts.Interactive,
	}
	if m.resolver == nil {
		m.resolver = shell.NewResolver()
	}
	if m.builder == nil {
		m.builder = &builder.Builder{}
	}
	if m.probe == nil {
		m.probe = func(path string) error { return helper.Probe(path, helper.DefaultProbeTimeout) }
	}
	if m.warn == nil {
		m.warn = os.Stderr
	}
	return m
}

func resolveEnabled(ids []feature.ID, cfg *config.Config) []feature.ID {
	if len(ids) > 0 {
		if s, err := feature.NewSet(ids...); err == nil {
			return s.IDs()
		}
	}
	if len(cfg.EnabledFeatures) > 0 {
		if s, err := feature.ParseSet(cfg.EnabledFeatures); err == nil {
			return s.IDs()
		}
	}
	return feature.DefaultEnabled()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Enabled returns the enabled feature set in registry-relevant order.
func (m *Manager) Enabled() []feature.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]feature.ID, len(m.enabled))
	copy(out, m.enabled)
	return out
}

// Install checks the helper and, when it is healthy or no user is there to
// ask, installs directly. Otherwise it offers a build; force skips both the
// health check and the offer. The returned Job is non-nil when a build was
// launched and resolves after the install path has re-run; Install never
// reports build failures as errors.
func (m *Manager) Install(force bool) *builder.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !force {
		if m.probe(m.cfg.HelperExecutable) == nil || m.prompter == nil {
			m.installNoVerifyLocked()
			return nil
		}
		ok, err := m.prompter.Confirm(messages.InstallBuildConfirm)
		if err != nil || !ok {
			return nil
		}
	}

	sh, err := m.resolver.Resolve()
	if err != nil {
		m.warnf(messages.InstallNoShellFmt, err)
		return nil
	}
	dir, ok := m.locator.Locate()
	if !ok {
		m.warnf(messages.InstallNoBuildDir)
		return nil
	}

	job, err := m.builder.Start(dir, builder.Options{
		Shell:       sh,
		TargetDir:   m.resolveTargetLocked(sh),
		Log:         m.buildLog,
		Input:       m.buildInput,
		Interactive: m.interactive,
		OnComplete:  m.onBuildComplete,
	})
	if err != nil {
		m.warnf(messages.InstallBuildStartFailedFmt, err)
		return nil
	}
	return job
}

// resolveTargetLocked picks the install target directory. The emulation
// layer's default location is unambiguous once remapped, so only the
// ordinary interactive case asks. Empty means let the driver's query mode
// decide.
func (m *Manager) resolveTargetLocked(sh shell.Shell) string {
	if sh.Kind == shell.Emulated || m.prompter == nil {
		return ""
	}
	dir, err := m.prompter.ChooseDirectory(messages.InstallTargetPrompt, "")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(dir)
}

// onBuildComplete re-enters the install path on success. Failures produce a
// single status message; the state stays Uninstalled.
func (m *Manager) onBuildComplete(execPath string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !ok {
		m.warnf(messages.InstallBuildFailed)
		return
	}
	m.warnf(messages.InstallBuildSucceededFmt, execPath)

	if m.cfg.HelperExecutable != execPath {
		m.cfg.HelperExecutable = execPath
		if m.cfgPath != "" {
			if err := config.Save(m.cfgPath, m.cfg); err != nil {
				m.warnf(messages.InstallConfigSaveFailedFmt, err)
			}
		}
	}
	if m.conn != nil && m.conn.Running() {
		if err := m.conn.Restart(execPath); err != nil {
			m.warnf(messages.InstallHelperRestartFailedFmt, err)
		}
	}
	m.installNoVerifyLocked()
}

// installNoVerifyLocked is the verification-skipped install path: associate
// the document type, activate enabled globals, hook future sessions, and
// convert the open ones. Safe to run when already installed.
func (m *Manager) installNoVerifyLocked() {
	m.host.Associate(session.TypeAssociation{Magic: Magic, Mode: ViewerMode})

	for _, id := range feature.Globals(m.enabled) {
		if m.host.GlobalActive(id) {
			continue
		}
		if err := m.host.ActivateGlobal(id); err != nil {
			m.warnf(messages.InstallGlobalFeatureFailedFmt, id, err)
		}
	}

	if m.hookCancel == nil {
		m.hookCancel = m.host.OnSessionCreated(m.adoptSession)
	}

	for _, s := range m.host.Sessions() {
		m.convertLocked(s)
	}
	m.state = Installed
}

// adoptSession converts a newly created session, if it matches.
func (m *Manager) adoptSession(s session.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convertLocked(s)
}

func (m *Manager) convertLocked(s session.Session) {
	if !bytes.Equal(s.Peek(len(Magic)), Magic) {
		return
	}
	if s.Mode() != ViewerMode {
		if err := s.SetMode(ViewerMode); err != nil {
			m.warnf(messages.InstallConvertFailedFmt, s.Name(), err)
			return
		}
	}
	if err := m.ctrl.Apply(s, feature.Locals(m.enabled), true); err != nil {
		m.warnf(messages.InstallConvertFailedFmt, s.Name(), err)
	}
}

// Uninstall tears everything down: helper connection, document-type
// association, global features, the session-creation hook, and every
// converted session. It is safe to call in any state.
func (m *Manager) Uninstall() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		m.conn.Stop()
	}
	m.host.Dissociate(Magic)

	for _, d := range feature.All() {
		if d.Global && m.host.GlobalActive(d.ID) {
			if err := m.host.DeactivateGlobal(d.ID); err != nil {
				m.warnf(messages.InstallGlobalFeatureFailedFmt, d.ID, err)
			}
		}
	}

	if m.hookCancel != nil {
		m.hookCancel()
		m.hookCancel = nil
	}

	allLocals := feature.Locals(feature.DefaultEnabled())
	for _, s := range m.host.Sessions() {
		if s.Mode() != ViewerMode {
			continue
		}
		if err := m.ctrl.Apply(s, allLocals, false); err != nil {
			m.warnf(messages.InstallConvertFailedFmt, s.Name(), err)
		}
		if err := s.SetMode(FallbackMode); err != nil {
			m.warnf(messages.InstallConvertFailedFmt, s.Name(), err)
		}
	}
	m.state = Uninstalled
}

func (m *Manager) warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.warn, format, args...)
}
