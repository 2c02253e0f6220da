package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagemark/docview/internal/messages"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   messages.BuildUse,
		Short: messages.BuildShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newManager(cmd, opts, buildIO{stream: cmd, interactive: isTerminal() && !opts.headless}, target)
			if err != nil {
				return err
			}
			job := m.Install(true)
			if job == nil {
				return errors.New(messages.BuildFailed)
			}
			<-job.Done()
			path, ok := job.Result()
			if !ok {
				return errors.New(messages.BuildFailed)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", messages.BuildDone, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", messages.FlagTarget)
	return cmd
}
