package version

// Version is set at build time via -ldflags.
var Version = "dev"

// GetInfo returns the human-readable version string.
func GetInfo() string {
	return Version
}
