package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// These variables are set at build time using -ldflags.
	Version   = "dev"
	GitCommit = ""
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
}

// Get returns the build version information, falling back to module build
// info when no ldflags were provided.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

// UserAgent returns the User-Agent string sent with every request.
func UserAgent() string {
	return fmt.Sprintf("dockerkit/%s", Get().Version)
}
