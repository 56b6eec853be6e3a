// Package buildinfo carries version data stamped in with -ldflags -X.
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the UI and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String returns "version (commit)", dropping unknown parts.
func String() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit == "" || Commit == "unknown" {
		return v
	}
	c := Commit
	if len(c) > 8 {
		c = c[:8]
	}
	return v + " (" + c + ")"
}
