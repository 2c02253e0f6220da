package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pagemark/docview/internal/doctor"
	"github.com/pagemark/docview/internal/feature"
	"github.com/pagemark/docview/internal/messages"
	"github.com/pagemark/docview/internal/shell"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}

			enabled := feature.DefaultEnabled()
			if len(cfg.EnabledFeatures) > 0 {
				if s, perr := feature.ParseSet(cfg.EnabledFeatures); perr == nil {
					enabled = s.IDs()
				}
			}

			resolver := shell.NewResolver()
			resolver.Prompter = newPrompter(opts)

			hasFail := false
			for _, r := range doctor.Run(resolver, defaultLocator(), cfg, enabled, nil) {
				printResult(out, r)
				if r.Status == doctor.StatusFail {
					hasFail = true
				}
			}

			_, _ = fmt.Fprintln(out, messages.DoctorFeatureHeader)
			_, _ = fmt.Fprint(out, doctor.FeatureReport(enabled))

			if hasFail {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return errors.New(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	for i, line := range strings.Split(recommendation, "\n") {
		if i == 0 {
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
	}
}
