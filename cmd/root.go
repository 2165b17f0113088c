package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"nipow/logx"
)

var rootCmd = &cobra.Command{
	Use:   "nipow",
	Short: "NIPoPoW light client node CLI",
	Long:  "Command line interface for running and managing a NIPoPoW light client consensus node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
