// Package buildinfo holds release metadata stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/kakeibo-dev/kakeibo/internal/buildinfo.Version=v0.3.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the --version text.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
