// Package version reports build information for the server and CLI.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set via -ldflags "-X debtplan/internal/version.Version=..." at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Info contains version and build information
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Revision  string `json:"revision,omitempty"`
	Dirty     bool   `json:"dirty"`
}

// Get returns the current version and build information
func Get() Info {
	info := Info{Version: Version, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// ShortRevision returns the first 8 characters of the VCS revision
func (i Info) ShortRevision() string {
	if len(i.Revision) > 8 {
		return i.Revision[:8]
	}
	return i.Revision
}

// String returns a one-line summary such as "dev (go1.25.0, a1b2c3d4+dirty)"
func (i Info) String() string {
	details := []string{}
	if i.GoVersion != "" {
		details = append(details, i.GoVersion)
	}
	if rev := i.ShortRevision(); rev != "" {
		if i.Dirty {
			rev += "+dirty"
		}
		details = append(details, rev)
	}
	if i.BuildTime != "unknown" {
		details = append(details, "built "+i.BuildTime)
	}

	if len(details) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(details, ", "))
}

// Check returns a warning for builds that can't be traced to a commit, or ""
func (i Info) Check() string {
	if i.Dirty {
		return "WARNING: Binary built from modified source tree"
	}
	if i.Revision == "" && i.Version == "dev" {
		return "WARNING: No version control information available (development build)"
	}
	return ""
}
