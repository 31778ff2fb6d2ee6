// Package version carries build metadata injected with -ldflags.
package version

import (
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Release   bool   `json:"release"`
}

func Get() Info {
	return Info{
		Version:   Normalize(Version),
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Release:   IsRelease(Version),
	}
}

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3", "dev" -> "dev"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || version == "dev" {
		return version
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsRelease reports whether the build carries a tagged semver version
// without a prerelease suffix.
func IsRelease(version string) bool {
	v := Normalize(version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}
