// Package version holds build metadata, set with -ldflags at release time.
package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return "apitester " + Version + " (" + Commit + ") built " + Date
}
