package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jamesainslie/renamer/pkg/renamer/rule"
)

// ErrInvalidChain indicates a --rule value that does not name a rule
// subcommand or carries bad flags.
var ErrInvalidChain = errors.New("invalid rule chain")

var chainRules []string

var chainCmd = &cobra.Command{
	Use:   "chain [path]",
	Short: "Apply several rules in one run",
	Long: `Applies rules one after another, each working on the names the previous
one produced, and commits the result as a single history entry.

Each --rule is a rule subcommand followed by its flags, in order.

Examples:
  renamer chain --rule "datetime --position begin" --rule "case --mode lower" .
  renamer chain --rule "remove --text IMG_" --rule "sequence --padding 3" ~/Scans`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, needsMetadata, err := buildChain(chainRules)
		if err != nil {
			return err
		}
		return runRuleCommand(cmd, args, rules, "chain: "+strings.Join(chainRules, " | "), needsMetadata)
	},
}

// buildChain builds one rule per spec. Flags not named in a spec keep their
// defaults, whatever an earlier spec for the same rule set.
func buildChain(specs []string) ([]rule.Rule, bool, error) {
	if len(specs) == 0 {
		return nil, false, fmt.Errorf("%w: at least one --rule is required", ErrInvalidChain)
	}

	var rules []rule.Rule
	needsMetadata := false
	for _, spec := range specs {
		fields := strings.Fields(spec)
		if len(fields) == 0 {
			return nil, false, fmt.Errorf("%w: empty --rule", ErrInvalidChain)
		}
		entry, ok := ruleCommands[fields[0]]
		if !ok {
			return nil, false, fmt.Errorf("%w: unknown rule %q", ErrInvalidChain, fields[0])
		}

		flags := entry.cmd.Flags()
		var resetErr error
		flags.VisitAll(func(fl *pflag.Flag) {
			if err := fl.Value.Set(fl.DefValue); err != nil && resetErr == nil {
				resetErr = err
			}
			fl.Changed = false
		})
		if resetErr != nil {
			return nil, false, resetErr
		}
		if err := flags.Parse(fields[1:]); err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", ErrInvalidChain, fields[0], err)
		}
		if flags.NArg() > 0 {
			return nil, false, fmt.Errorf("%w: %s: unexpected argument %q", ErrInvalidChain, fields[0], flags.Arg(0))
		}

		rl, metadata, err := entry.build(cfg)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", fields[0], err)
		}
		rules = append(rules, rl)
		needsMetadata = needsMetadata || metadata
	}
	return rules, needsMetadata, nil
}

func init() {
	chainCmd.Flags().StringArrayVar(&chainRules, "rule", nil, "a rule and its flags, e.g. \"sequence --padding 3\" (repeatable)")
	rootCmd.AddCommand(chainCmd)
}
