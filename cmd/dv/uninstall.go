package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagemark/docview/internal/messages"
)

func newUninstallCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.UninstallUse,
		Short: messages.UninstallShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newManager(cmd, opts, buildIO{}, "")
			if err != nil {
				return err
			}
			m.Uninstall()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.UninstallDone)
			return nil
		},
	}
}
