package buildinfo

import "time"

// Set via -ldflags "-X github.com/xelth-com/eckwms-mondialrelay/internal/buildinfo.CommitHash=..."
var (
	BuildTime  string
	CommitTime string
	CommitHash string
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)

// Info describes the running binary
type Info struct {
	BuildTime  string `json:"buildTime"`
	CommitTime string `json:"commitTime"`
	CommitHash string `json:"commitHash"`
	StartTime  string `json:"startTime"`
}

// Get returns the build information, "dev" for unstamped builds
func Get() Info {
	info := Info{
		BuildTime:  BuildTime,
		CommitTime: CommitTime,
		CommitHash: CommitHash,
		StartTime:  StartTime,
	}
	if info.CommitHash == "" {
		info.CommitHash = "dev"
	}
	return info
}

// String is the short version printed by the CLI
func (i Info) String() string {
	if i.BuildTime == "" {
		return i.CommitHash
	}
	return i.CommitHash + " (" + i.BuildTime + ")"
}
