package version

// Version information for the codecorrect CLI.
// These variables can be overridden at build time via -ldflags.
var (
	Version   = "0.3.0-dev"
	GitCommit = ""
	BuildDate = ""
)

// String renders the version with whatever build metadata is present.
func String() string {
	out := Version
	if GitCommit != "" {
		out += " (" + GitCommit + ")"
	}
	if BuildDate != "" {
		out += " built " + BuildDate
	}
	return out
}
