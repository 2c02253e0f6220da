package messages

// CLI command metadata and flag help.
const (
	RootUse   = "dv"
	RootShort = "Document viewer helper bootstrap"
	RootLong  = "dv builds, installs, and supervises the document viewer's helper executable."

	VersionTemplate = "{{.Version}}\n"

	InstallUse   = "install"
	InstallShort = "Install the helper, building it first if needed"
	InstallLong  = "install checks the configured helper executable and activates the viewer features. " +
		"When the helper is missing or unhealthy, it offers to build it from source."

	UninstallUse   = "uninstall"
	UninstallShort = "Deactivate the viewer features and stop the helper"

	DoctorUse   = "doctor"
	DoctorShort = "Diagnose the helper installation"

	BuildUse   = "build"
	BuildShort = "Build and install the helper from source unconditionally"

	FlagForce       = "Skip the health check and build even if the helper looks healthy"
	FlagTarget      = "Install directory for the helper (default: ask the build driver)"
	FlagHeadless    = "Never prompt; skip anything that would require interaction"
	FlagConfigPath  = "Config file location"
	InstallDeclined = "Install aborted"

	InstallDone   = "Viewer features activated"
	UninstallDone = "Viewer features deactivated"
	BuildDone     = "Helper built"
	BuildFailed   = "build failed"
)
