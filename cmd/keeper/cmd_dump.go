package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/keeper/rules"
)

func newDumpCmd() *cobra.Command {
	var dumpDalvik bool

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Parse a rule file and print the normalized configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var parser *rules.Parser
			var err error

			if len(args) == 0 {
				source, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				parser = rules.NewStringParser(string(source), "", nil)
			} else {
				parser, err = rules.NewFileParser(args[0], nil)
				if err != nil {
					return err
				}
			}

			config := &rules.Configuration{DalvikIdentifiers: dumpDalvik}
			if err := parser.Parse(config); err != nil {
				return err
			}
			for _, warning := range parser.Warnings() {
				fmt.Fprintln(cmd.ErrOrStderr(), warning)
			}

			return rules.NewPrinter(cmd.OutOrStdout()).Print(config)
		},
	}

	cmd.Flags().BoolVar(&dumpDalvik, "dalvik", false, "validate identifiers against Dalvik character ranges")

	return cmd
}
