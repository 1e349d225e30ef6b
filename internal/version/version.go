// Package version provides build-time version information for tablewash.
//
// Variables in this package are set at build time using ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/tablewash/internal/version.Version=1.0.0 ..."
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Build-time variables set via ldflags
var (
	// Version is the semantic version (e.g., "1.0.0" or "1.0.0-dev.5+abc123")
	Version = "dev"

	// Commit is the git commit SHA
	Commit = "unknown"

	// BuildDate is the UTC build timestamp in RFC3339 format
	BuildDate = "unknown"
)

// Info contains structured version information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current version information. When no version was set via
// ldflags, the module version recorded by "go install pkg@version" is used.
func Get() Info {
	return Info{
		Version:   resolve(Version),
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Full returns a multi-line version string.
func Full() string {
	info := Get()
	var sb strings.Builder
	fmt.Fprintf(&sb, "tablewash %s\n", info.Version)
	fmt.Fprintf(&sb, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(&sb, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", info.Platform)
	return sb.String()
}

func resolve(v string) string {
	if v != "dev" {
		return v
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return strings.TrimPrefix(info.Main.Version, "v")
	}
	return v
}
