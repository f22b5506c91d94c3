package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "keeper",
		Short: "A shrinker rules toolchain",
	}

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
