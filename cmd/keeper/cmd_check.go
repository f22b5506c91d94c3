package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/keeper/rules"
)

func newCheckCmd() *cobra.Command {
	var checkDalvik bool
	var checkVerbose bool
	var checkDefines []string

	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Parse shrinker rule files and report problems",
		Long: `Parse shrinker rule files and report problems.

Each file is parsed in full; the first grammatical error fails the check.
Options only supported by other tools are flagged with a warning.
If no file is provided, rules are read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity := 0
			if checkVerbose {
				verbosity = 1
			}
			commonlog.Configure(verbosity, nil)
			log := commonlog.GetLogger("keeper.check")

			properties, err := parseDefines(checkDefines)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				source, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				parser := rules.NewStringParser(string(source), "", properties)
				return checkOne(cmd, log, parser, "stdin", checkDalvik, checkVerbose)
			}

			for _, path := range args {
				parser, err := rules.NewFileParser(path, properties)
				if err != nil {
					return err
				}
				if err := checkOne(cmd, log, parser, path, checkDalvik, checkVerbose); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkDalvik, "dalvik", false, "validate identifiers against Dalvik character ranges")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "log a summary for each file")
	cmd.Flags().StringArrayVarP(&checkDefines, "define", "D", nil, "property for <name> substitution, as name=value")

	return cmd
}

func checkOne(cmd *cobra.Command, log commonlog.Logger, parser *rules.Parser, name string, dalvik, verbose bool) error {
	config := &rules.Configuration{DalvikIdentifiers: dalvik}
	err := parser.Parse(config)

	for _, warning := range parser.Warnings() {
		log.Warning(warning)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if verbose {
		log.Infof("%s: %d class specifications", name, len(config.ClassSpecifications()))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
	return nil
}

func parseDefines(defines []string) (map[string]string, error) {
	if len(defines) == 0 {
		return nil, nil
	}
	properties := make(map[string]string, len(defines))
	for _, define := range defines {
		name, value, found := strings.Cut(define, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", define)
		}
		properties[name] = value
	}
	return properties, nil
}
