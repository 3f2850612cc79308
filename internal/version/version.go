// Package version reports the stacky toolchain's build fingerprint:
// the semantic version plus optional git metadata baked in via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version, GitCommit, GitMessage, and BuildDate are overridden at build
// time via -ldflags; Version defaults to a development placeholder when
// the binary wasn't built through the release process.
var (
	Version    = "0.1.0-dev"
	GitCommit  = ""
	GitMessage = ""
	BuildDate  = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with its major.minor.patch segments tinted,
// matching cmd/stacky's -C/--no-colors convention elsewhere in the CLI.
// It returns Version unchanged when enabled is false or Version doesn't
// split into exactly three dot-separated segments.
func Colored(enabled bool) string {
	if !enabled {
		return Version
	}
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	majorColor.EnableColor()
	minorColor.EnableColor()
	patchColor.EnableColor()
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
}
