package buildinfo

import "fmt"

// Set through -ldflags "-X github.com/aalvaropc/fitdemo/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("fitdemo %s (commit=%s, date=%s)", Version, Commit, Date)
}
