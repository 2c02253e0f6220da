// Package doctor diagnoses the helper installation: shell, build sources,
// the configured executable, and the feature registry.
package doctor

import (
	"fmt"
	"strings"

	"github.com/pagemark/docview/internal/builddir"
	"github.com/pagemark/docview/internal/config"
	"github.com/pagemark/docview/internal/feature"
	"github.com/pagemark/docview/internal/helper"
	"github.com/pagemark/docview/internal/messages"
	"github.com/pagemark/docview/internal/shell"
)

// Status classifies a check outcome.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is one check outcome.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// CheckShell verifies a POSIX shell can be resolved.
func CheckShell(r *shell.Resolver) Result {
	sh, err := r.Resolve()
	if err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameShell,
			Message:        fmt.Sprintf(messages.DoctorShellMissingFmt, err),
			Recommendation: messages.DoctorShellRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameShell,
		Message:   fmt.Sprintf(messages.DoctorShellFoundFmt, sh.Path),
	}
}

// CheckBuildSources verifies a qualifying source tree exists. Missing
// sources are a warning, not a failure: an already healthy helper needs no
// rebuild.
func CheckBuildSources(l builddir.Locator) Result {
	dir, ok := l.Locate()
	if !ok {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameSources,
			Message:        messages.DoctorSourcesMissing,
			Recommendation: fmt.Sprintf(messages.DoctorSourcesRecommendFmt, strings.Join(l.Candidates(), ", ")),
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameSources,
		Message:   fmt.Sprintf(messages.DoctorSourcesFoundFmt, dir),
	}
}

// CheckHelper runs the health probe against the configured executable.
func CheckHelper(cfg *config.Config, probe func(path string) error) Result {
	if probe == nil {
		probe = func(path string) error { return helper.Probe(path, helper.DefaultProbeTimeout) }
	}
	if err := probe(cfg.HelperExecutable); err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameHelper,
			Message:        fmt.Sprintf(messages.DoctorHelperUnhealthyFmt, err),
			Recommendation: messages.DoctorHelperRecommend,
		}
	}
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameHelper,
		Message:   fmt.Sprintf(messages.DoctorHelperHealthyFmt, cfg.HelperExecutable),
	}
}

// CheckFeatures summarizes the registry against the enabled set.
func CheckFeatures(enabled []feature.ID) Result {
	return Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameFeatures,
		Message:   fmt.Sprintf(messages.DoctorFeaturesFmt, len(feature.All()), len(enabled)),
	}
}

// FeatureReport renders one line per known feature with its enabled state,
// in registry order.
func FeatureReport(enabled []feature.ID) string {
	on := make(map[feature.ID]bool, len(enabled))
	for _, id := range enabled {
		on[id] = true
	}
	var b strings.Builder
	for _, d := range feature.All() {
		mark := messages.DoctorFeatureDisabledMark
		if on[d.ID] {
			mark = messages.DoctorFeatureEnabledMark
		}
		suffix := ""
		if d.Global {
			suffix = messages.DoctorFeatureGlobalSuffix
		}
		fmt.Fprintf(&b, messages.DoctorFeatureLineFmt, mark, string(d.ID), d.Doc, suffix)
	}
	return b.String()
}

// Run executes every check in order.
func Run(r *shell.Resolver, l builddir.Locator, cfg *config.Config, enabled []feature.ID, probe func(path string) error) []Result {
	return []Result{
		CheckShell(r),
		CheckBuildSources(l),
		CheckHelper(cfg, probe),
		CheckFeatures(enabled),
	}
}
