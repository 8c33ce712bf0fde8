package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
)

// Set with -ldflags "-X inetsum/cmd/version.Version=...".
var (
	Version   = "dev"
	GitTag    = ""
	GitCommit = ""
	BuildTime = ""
)

var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Prints version and build information.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), String())
	},
}

func String() string {
	order := "little-endian"
	if cpu.IsBigEndian {
		order = "big-endian"
	}
	s := fmt.Sprintf("inetsum %s\n", Version)
	if GitTag != "" {
		s += fmt.Sprintf("Tag: %s\n", GitTag)
	}
	if GitCommit != "" {
		s += fmt.Sprintf("Commit: %s\n", GitCommit)
	}
	if BuildTime != "" {
		s += fmt.Sprintf("Build Time: %s\n", BuildTime)
	}
	s += fmt.Sprintf("OS: %s\nArchitecture: %s (%s)\nGo Version: %s\n", runtime.GOOS, runtime.GOARCH, order, runtime.Version())
	return s
}
