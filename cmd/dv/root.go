package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagemark/docview/internal/builddir"
	"github.com/pagemark/docview/internal/config"
	"github.com/pagemark/docview/internal/installer"
	"github.com/pagemark/docview/internal/messages"
	"github.com/pagemark/docview/internal/prompt"
	"github.com/pagemark/docview/internal/session"
	"github.com/pagemark/docview/internal/terminal"
)

// NOTE: Tests replace these seams. Restore them via t.Cleanup().
var (
	isTerminal     = terminal.IsInteractive
	getwd          = os.Getwd
	executablePath = os.Executable
)

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	headless   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", messages.FlagConfigPath)
	cmd.PersistentFlags().BoolVar(&opts.headless, "headless", false, messages.FlagHeadless)
	cmd.AddCommand(
		newInstallCmd(opts),
		newUninstallCmd(opts),
		newBuildCmd(opts),
		newDoctorCmd(opts),
	)
	return cmd
}

// loadConfig resolves the config path from the flag or the platform default
// and loads it. A missing file yields an empty config.
func loadConfig(opts *rootOptions) (*config.Config, string, error) {
	path := opts.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newPrompter returns the interactive prompter, or nil when prompting is
// impossible or suppressed.
func newPrompter(opts *rootOptions) prompt.Prompter {
	if opts.headless || !isTerminal() {
		return nil
	}
	return prompt.NewHuh()
}

// defaultLocator searches the working directory first, then the directory
// the binary was installed from.
func defaultLocator() builddir.Locator {
	l := builddir.Locator{}
	if wd, err := getwd(); err == nil {
		l.WorkDir = wd
	}
	if exe, err := executablePath(); err == nil {
		l.PackageDir = filepath.Dir(exe)
	}
	return l
}

// buildIO bundles the optional build streaming configuration.
type buildIO struct {
	stream      *cobra.Command
	interactive bool
}

// newManager assembles an installer.Manager for a one-shot CLI invocation.
func newManager(cmd *cobra.Command, opts *rootOptions, streams buildIO, target string) (*installer.Manager, error) {
	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	prompter := newPrompter(opts)
	if target != "" {
		prompter = fixedTargetPrompter{Prompter: prompter, target: target}
	}
	mo := installer.Options{
		Host:        session.NewRegistry(),
		Config:      cfg,
		ConfigPath:  cfgPath,
		Prompter:    prompter,
		Locator:     defaultLocator(),
		Warn:        cmd.ErrOrStderr(),
		Interactive: streams.interactive,
	}
	if streams.stream != nil {
		mo.BuildLog = streams.stream.OutOrStdout()
		mo.BuildInput = streams.stream.InOrStdin()
	}
	return installer.New(mo), nil
}

// fixedTargetPrompter answers the install-directory question with a flag
// value and delegates everything else.
type fixedTargetPrompter struct {
	prompt.Prompter
	target string
}

func (p fixedTargetPrompter) Confirm(question string) (bool, error) {
	if p.Prompter == nil {
		return true, nil
	}
	return p.Prompter.Confirm(question)
}

func (p fixedTargetPrompter) ChooseDirectory(question, def string) (string, error) {
	return p.target, nil
}
