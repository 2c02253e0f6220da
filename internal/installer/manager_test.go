package installer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemark/docview/internal/builddir"
	"github.com/pagemark/docview/internal/builder"
	"github.com/pagemark/docview/internal/config"
	"github.com/pagemark/docview/internal/feature"
	"github.com/pagemark/docview/internal/prompt"
	"github.com/pagemark/docview/internal/session"
	"github.com/pagemark/docview/internal/shell"
)

var errUnhealthy = errors.New("helper unusable")

func healthyProbe(string) error   { return nil }
func unhealthyProbe(string) error { return errUnhealthy }

func posixResolver() *shell.Resolver {
	return &shell.Resolver{LookPath: func(string) (string, error) { return "/bin/sh", nil }}
}

// countingBuffer is a matching session whose feature entry points count
// invocations.
func countingBuffer(name string, counts map[feature.ID]int) *session.Buffer {
	b := session.NewBuffer(name, []byte("%PDF-1.7\n..."), FallbackMode)
	for _, d := range feature.All() {
		if d.Global {
			continue
		}
		id := d.ID
		b.SetFeatureHooks(id, session.FeatureHooks{
			Activate:   func(*session.Buffer) error { counts[id]++; return nil },
			Deactivate: func(*session.Buffer) error { counts[id]--; return nil },
		})
	}
	return b
}

func writeBuildTree(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive a real POSIX shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, builddir.DriverScript), []byte(script), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, builddir.PrimarySource), []byte("/* helper */"), 0o644))
	return dir
}

const goodDriver = `case "$1" in
-n) echo "$PWD/install" ;;
-i) mkdir -p "$2" && : > "$2/epdfinfo" ;;
esac`

func waitJob(t *testing.T, job *builder.Job) (string, bool) {
	t.Helper()
	require.NotNil(t, job)
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("build did not finish")
	}
	return job.Result()
}

func TestInstallHealthyHelperSkipsBuild(t *testing.T) {
	host := session.NewRegistry()
	counts := make(map[feature.ID]int)
	buf := countingBuffer("doc.pdf", counts)
	host.Add(buf)

	var warn bytes.Buffer
	m := New(Options{Host: host, Probe: healthyProbe, Warn: &warn})
	job := m.Install(false)

	assert.Nil(t, job)
	assert.Equal(t, Installed, m.State())
	require.Len(t, host.Associations(), 1)
	assert.Equal(t, Magic, host.Associations()[0].Magic)
	assert.Equal(t, ViewerMode, host.Associations()[0].Mode)
	assert.Equal(t, ViewerMode, buf.Mode())
	for _, id := range feature.Locals(feature.DefaultEnabled()) {
		assert.Equal(t, 1, counts[id], "feature %s", id)
	}
	assert.True(t, host.GlobalActive(feature.Occur))
	assert.Equal(t, 1, host.SubscriberCount())
	assert.Empty(t, warn.String())
}

func TestInstallTwiceIsIdempotent(t *testing.T) {
	host := session.NewRegistry()
	counts := make(map[feature.ID]int)
	host.Add(countingBuffer("doc.pdf", counts))

	globalActivations := 0
	host.RegisterGlobal(feature.Occur, session.GlobalHooks{
		Activate: func() error { globalActivations++; return nil },
	})

	m := New(Options{Host: host, Probe: healthyProbe, Warn: &bytes.Buffer{}})
	m.Install(false)
	m.Install(false)

	assert.Len(t, host.Associations(), 1, "no duplicate document-type association")
	assert.Equal(t, 1, host.SubscriberCount(), "no duplicate session-creation hook")
	assert.Equal(t, 1, globalActivations)
	for _, id := range feature.Locals(feature.DefaultEnabled()) {
		assert.Equal(t, 1, counts[id], "feature %s activated more than once", id)
	}
}

func TestInstallHeadlessUnhealthySkipsBuild(t *testing.T) {
	host := session.NewRegistry()
	m := New(Options{Host: host, Probe: unhealthyProbe, Warn: &bytes.Buffer{}})

	job := m.Install(false)
	assert.Nil(t, job)
	assert.Equal(t, Installed, m.State(), "non-interactive install proceeds without building")
	assert.Len(t, host.Associations(), 1)
}

func TestInstallDeclinedStaysUninstalled(t *testing.T) {
	host := session.NewRegistry()
	asked := 0
	m := New(Options{
		Host:  host,
		Probe: unhealthyProbe,
		Warn:  &bytes.Buffer{},
		Prompter: prompt.Funcs{ConfirmFunc: func(string) (bool, error) {
			asked++
			return false, nil
		}},
	})

	job := m.Install(false)
	assert.Nil(t, job)
	assert.Equal(t, 1, asked)
	assert.Equal(t, Uninstalled, m.State())
	assert.Empty(t, host.Associations())
	assert.Equal(t, 0, host.SubscriberCount())
}

func TestInstallForceBuildsEndToEnd(t *testing.T) {
	buildDir := writeBuildTree(t, goodDriver)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	host := session.NewRegistry()

	var warn bytes.Buffer
	m := New(Options{
		Host:       host,
		Config:     &config.Config{},
		ConfigPath: cfgPath,
		Probe:      unhealthyProbe,
		Resolver:   posixResolver(),
		Locator:    builddir.Locator{WorkDir: buildDir, PackageDir: t.TempDir()},
		Warn:       &warn,
	})

	job := m.Install(true)
	path, ok := waitJob(t, job)

	require.True(t, ok)
	assert.Equal(t, filepath.Join(buildDir, "install", "epdfinfo"), path)
	assert.Equal(t, Installed, m.State())

	persisted, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, path, persisted.HelperExecutable)
	assert.Contains(t, warn.String(), path)
}

func TestInstallBuildFailureIsSilentByDesign(t *testing.T) {
	buildDir := writeBuildTree(t, `case "$1" in
-n) echo "$PWD/install" ;;
-i) exit 1 ;;
esac`)
	host := session.NewRegistry()

	var warn bytes.Buffer
	m := New(Options{
		Host:     host,
		Probe:    unhealthyProbe,
		Resolver: posixResolver(),
		Locator:  builddir.Locator{WorkDir: buildDir, PackageDir: t.TempDir()},
		Warn:     &warn,
	})

	job := m.Install(true)
	_, ok := waitJob(t, job)

	assert.False(t, ok)
	assert.Equal(t, Uninstalled, m.State())
	assert.Contains(t, warn.String(), "failed")
	assert.Empty(t, host.Associations())
}

func TestInstallExitZeroWithoutArtifactStaysUninstalled(t *testing.T) {
	buildDir := writeBuildTree(t, `case "$1" in
-n) echo "$PWD/install" ;;
-i) exit 0 ;;
esac`)

	m := New(Options{
		Host:     session.NewRegistry(),
		Probe:    unhealthyProbe,
		Resolver: posixResolver(),
		Locator:  builddir.Locator{WorkDir: buildDir, PackageDir: t.TempDir()},
		Warn:     &bytes.Buffer{},
	})

	job := m.Install(true)
	_, ok := waitJob(t, job)
	assert.False(t, ok)
	assert.Equal(t, Uninstalled, m.State())
}

func TestInstallNoShellSurfacesMessage(t *testing.T) {
	var warn bytes.Buffer
	m := New(Options{
		Host:  session.NewRegistry(),
		Probe: unhealthyProbe,
		Resolver: &shell.Resolver{
			LookPath: func(string) (string, error) { return "", errors.New("not found") },
			GOOS:     "linux",
		},
		Warn: &warn,
	})

	job := m.Install(true)
	assert.Nil(t, job)
	assert.Equal(t, Uninstalled, m.State())
	assert.NotEmpty(t, warn.String())
}

func TestInstallNoBuildDirSurfacesMessage(t *testing.T) {
	var warn bytes.Buffer
	m := New(Options{
		Host:     session.NewRegistry(),
		Probe:    unhealthyProbe,
		Resolver: posixResolver(),
		Locator:  builddir.Locator{WorkDir: t.TempDir(), PackageDir: t.TempDir()},
		Warn:     &warn,
	})

	job := m.Install(true)
	assert.Nil(t, job)
	assert.Equal(t, Uninstalled, m.State())
	assert.Contains(t, warn.String(), "no build sources")
}

func TestInstallUsesChosenTargetDirectory(t *testing.T) {
	buildDir := writeBuildTree(t, goodDriver)
	target := filepath.Join(t.TempDir(), "chosen")

	m := New(Options{
		Host:     session.NewRegistry(),
		Probe:    unhealthyProbe,
		Resolver: posixResolver(),
		Locator:  builddir.Locator{WorkDir: buildDir, PackageDir: t.TempDir()},
		Warn:     &bytes.Buffer{},
		Prompter: prompt.Funcs{
			ConfirmFunc:         func(string) (bool, error) { return true, nil },
			ChooseDirectoryFunc: func(q, def string) (string, error) { return target, nil },
		},
	})

	job := m.Install(false)
	path, ok := waitJob(t, job)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(target, "epdfinfo"), path)
}

func TestInstallPersistsOnlyOnChange(t *testing.T) {
	buildDir := writeBuildTree(t, goodDriver)
	expected := filepath.Join(buildDir, "install", "epdfinfo")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	m := New(Options{
		Host:       session.NewRegistry(),
		Config:     &config.Config{HelperExecutable: expected},
		ConfigPath: cfgPath,
		Probe:      unhealthyProbe,
		Resolver:   posixResolver(),
		Locator:    builddir.Locator{WorkDir: buildDir, PackageDir: t.TempDir()},
		Warn:       &bytes.Buffer{},
	})

	job := m.Install(true)
	_, ok := waitJob(t, job)
	require.True(t, ok)

	_, err := os.Stat(cfgPath)
	assert.True(t, os.IsNotExist(err), "unchanged executable path must not be persisted")
}

func TestNewSessionIsAdopted(t *testing.T) {
	host := session.NewRegistry()
	m := New(Options{Host: host, Probe: healthyProbe, Warn: &bytes.Buffer{}})
	m.Install(false)

	counts := make(map[feature.ID]int)
	buf := countingBuffer("later.pdf", counts)
	host.Add(buf)

	assert.Equal(t, ViewerMode, buf.Mode())
	for _, id := range feature.Locals(m.Enabled()) {
		assert.Equal(t, 1, counts[id])
	}
}

func TestNonMatchingSessionUntouched(t *testing.T) {
	host := session.NewRegistry()
	plain := session.NewBuffer("notes.txt", []byte("just text"), FallbackMode)
	host.Add(plain)

	m := New(Options{Host: host, Probe: healthyProbe, Warn: &bytes.Buffer{}})
	m.Install(false)

	assert.Equal(t, FallbackMode, plain.Mode())
	assert.Empty(t, plain.ActiveFeatures())
}

func TestUninstallRevertsEverything(t *testing.T) {
	host := session.NewRegistry()
	counts := make(map[feature.ID]int)
	buf := countingBuffer("doc.pdf", counts)
	host.Add(buf)

	m := New(Options{Host: host, Probe: healthyProbe, Warn: &bytes.Buffer{}})
	m.Install(false)
	m.Uninstall()

	assert.Equal(t, Uninstalled, m.State())
	assert.Empty(t, host.Associations())
	assert.Equal(t, 0, host.SubscriberCount())
	assert.False(t, host.GlobalActive(feature.Occur))
	assert.Equal(t, FallbackMode, buf.Mode())
	assert.Empty(t, buf.ActiveFeatures())
	for _, id := range feature.Locals(feature.DefaultEnabled()) {
		assert.Equal(t, 0, counts[id], "feature %s still active", id)
	}

	// New matching sessions are no longer adopted.
	late := session.NewBuffer("late.pdf", []byte("%PDF-1.4"), FallbackMode)
	host.Add(late)
	assert.Equal(t, FallbackMode, late.Mode())
}

func TestUninstallWithoutInstallIsSafe(t *testing.T) {
	m := New(Options{Host: session.NewRegistry(), Probe: unhealthyProbe, Warn: &bytes.Buffer{}})
	m.Uninstall()
	assert.Equal(t, Uninstalled, m.State())
}

func TestEnabledSetFromConfig(t *testing.T) {
	cfg := &config.Config{EnabledFeatures: []string{"history", "search", "history"}}
	m := New(Options{Host: session.NewRegistry(), Config: cfg, Probe: healthyProbe, Warn: &bytes.Buffer{}})
	assert.Equal(t, []feature.ID{feature.History, feature.Search}, m.Enabled())
}

func TestEnabledSetInvalidConfigFallsBack(t *testing.T) {
	cfg := &config.Config{EnabledFeatures: []string{"telepathy"}}
	m := New(Options{Host: session.NewRegistry(), Config: cfg, Probe: healthyProbe, Warn: &bytes.Buffer{}})
	assert.Equal(t, feature.DefaultEnabled(), m.Enabled())
}

func TestEnabledSubsetOnlyActivatesItsFeatures(t *testing.T) {
	host := session.NewRegistry()
	counts := make(map[feature.ID]int)
	buf := countingBuffer("doc.pdf", counts)
	host.Add(buf)

	m := New(Options{
		Host:    host,
		Enabled: []feature.ID{feature.History, feature.Occur},
		Probe:   healthyProbe,
		Warn:    &bytes.Buffer{},
	})
	m.Install(false)

	assert.Equal(t, 1, counts[feature.History])
	assert.Equal(t, 0, counts[feature.Search])
	assert.True(t, host.GlobalActive(feature.Occur))
}
