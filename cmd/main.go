package main

import (
	"inetsum/cmd/bench"
	"inetsum/cmd/selftest"
	"inetsum/cmd/sum"
	"inetsum/cmd/version"
	"inetsum/internal/flog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "inetsum",
	Short:        "Computes RFC 1071 Internet checksum partial sums.",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(sum.Cmd, bench.Cmd, selftest.Cmd, version.Cmd)
	err := rootCmd.Execute()
	flog.Close()
	if err != nil {
		os.Exit(1)
	}
}
