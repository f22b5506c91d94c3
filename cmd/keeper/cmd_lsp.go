package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/keeper/lsp"
)

func newLSPCmd() *cobra.Command {
	var lspDalvik bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, lspDalvik)
			return server.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&lspDalvik, "dalvik", false, "validate identifiers against Dalvik character ranges")

	return cmd
}
