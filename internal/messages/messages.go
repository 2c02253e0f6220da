// Package messages centralizes user-facing strings.
package messages

// Prompting.
const (
	PromptConfirmRequired         = "confirm prompt required but not configured"
	PromptChooseDirectoryRequired = "directory prompt required but not configured"
	PromptRequiresTerminal        = "prompts require an interactive terminal"
)

// Shell resolution.
const (
	ShellEmulationDirPrompt     = "POSIX emulation layer installation directory (leave empty to skip)"
	ShellEmulationDirInvalidFmt = "%s does not contain usr/bin/bash.exe"
)

// Building.
const (
	BuildProcessExitFmt   = "build driver: %v\n"
	BuildQueryEmptyOutput = "driver reported no default install directory"
)

// Configuration.
const (
	ConfigNoHomeFmt       = "cannot determine config location: %v"
	ConfigReadFailedFmt   = "read config %s: %v"
	ConfigInvalidFmt      = "parse config %s: %v"
	ConfigEncodeFailedFmt = "encode config: %v"
	ConfigWriteFailedFmt  = "write config %s: %v"
)

// Helper process.
const (
	HelperNotConfigured    = "no helper executable configured"
	HelperMissingFmt       = "helper executable %s: %v"
	HelperNotExecutableFmt = "helper executable %s is not executable"
	HelperProbeFailedFmt   = "probe helper %s: %v"
	HelperProbeNoAnswerFmt = "helper %s exited without answering the capability query"
	HelperProbeTimeoutFmt  = "helper %s did not answer the capability query within %s"
	HelperStartFailedFmt   = "start helper %s: %v"
	HelperNotRunning       = "helper is not running"
)

// Installation lifecycle.
const (
	InstallBuildConfirm           = "The helper executable is missing or unusable. Build it from source now?"
	InstallTargetPrompt           = "Install directory for the helper (leave empty to use the driver default)"
	InstallNoShellFmt             = "Cannot build the helper: %v\n"
	InstallNoBuildDir             = "Cannot build the helper: no build sources found\n"
	InstallBuildStartFailedFmt    = "Cannot build the helper: %v\n"
	InstallBuildFailed            = "Building the helper failed; see the build log\n"
	InstallBuildSucceededFmt      = "Helper built and installed at %s\n"
	InstallConfigSaveFailedFmt    = "Warning: failed to persist configuration: %v\n"
	InstallHelperRestartFailedFmt = "Warning: failed to restart the helper: %v\n"
	InstallGlobalFeatureFailedFmt = "Warning: global feature %s: %v\n"
	InstallConvertFailedFmt       = "Warning: session %s: %v\n"
)

// Doctor checks.
const (
	DoctorCheckNameShell    = "shell"
	DoctorCheckNameSources  = "build sources"
	DoctorCheckNameHelper   = "helper"
	DoctorCheckNameFeatures = "features"

	DoctorShellFoundFmt        = "POSIX shell at %s"
	DoctorShellMissingFmt      = "no usable shell: %v"
	DoctorShellRecommend       = "install a POSIX shell (or the emulation layer on Windows)"
	DoctorSourcesFoundFmt      = "build sources at %s"
	DoctorSourcesMissing       = "no build sources found"
	DoctorSourcesRecommendFmt  = "place the helper sources in one of: %s"
	DoctorHelperHealthyFmt     = "helper healthy at %s"
	DoctorHelperUnhealthyFmt   = "helper unusable: %v"
	DoctorHelperRecommend      = "run 'dv install' to build the helper"
	DoctorFeaturesFmt          = "%d features known, %d enabled"
	DoctorFeatureLineFmt       = "  %s%-12s %s%s\n"
	DoctorFeatureGlobalSuffix  = " (global)"
	DoctorFeatureEnabledMark   = "enabled:  "
	DoctorFeatureDisabledMark  = "disabled: "
	DoctorRecommendationPrefix = "  -> "
	DoctorRecommendationIndent = "     "

	DoctorStatusOKLabel   = "[OK]  "
	DoctorStatusWarnLabel = "[WARN]"
	DoctorStatusFailLabel = "[FAIL]"
	DoctorResultLineFmt   = "%s %s: %s\n"

	DoctorFeatureHeader  = "Features:"
	DoctorSuccessSummary = "Everything looks good."
	DoctorFailureSummary = "Some checks failed."
	DoctorFailureError   = "doctor found problems"
)
