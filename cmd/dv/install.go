package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagemark/docview/internal/installer"
	"github.com/pagemark/docview/internal/messages"
)

func newInstallCmd(opts *rootOptions) *cobra.Command {
	var force bool
	var target string
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Long:  messages.InstallLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newManager(cmd, opts, buildIO{stream: cmd, interactive: isTerminal() && !opts.headless}, target)
			if err != nil {
				return err
			}
			job := m.Install(force)
			if job != nil {
				<-job.Done()
				if _, ok := job.Result(); !ok {
					return errors.New(messages.BuildFailed)
				}
			}
			if m.State() != installer.Installed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.InstallDeclined)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.InstallDone)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, messages.FlagForce)
	cmd.Flags().StringVar(&target, "target", "", messages.FlagTarget)
	return cmd
}
