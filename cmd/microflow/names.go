package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/microflowhq/microflow/pkg/validation"
	cli "github.com/urfave/cli/v3"
)

func NewNamesCommand() *cli.Command {
	return &cli.Command{
		Name:      "names",
		Aliases:   []string{"n"},
		Usage:     "Check workflow ids against the naming convention",
		ArgsUsage: "[id ...]",
		Action: func(ctx context.Context, command *cli.Command) error {
			config := validation.DefaultRuleConfig()

			if command.Args().Len() == 0 {
				fmt.Println("Naming convention: function__tool__output")
				fmt.Printf("Pattern: %s\n", config.IDPattern)
				fmt.Printf("Approved verbs: %s\n", strings.Join(config.ApprovedVerbs, ", "))

				return nil
			}

			invalid := 0

			for _, id := range command.Args().Slice() {
				problems := checkName(config, id)
				if len(problems) == 0 {
					fmt.Printf("%s\n    ✅ VALID\n", id)

					continue
				}

				invalid++

				fmt.Printf("%s\n    ❌ INVALID\n", id)

				for _, problem := range problems {
					fmt.Printf("      %s\n", problem)
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%w: %d invalid names", ErrValidationFailed, invalid)
			}

			return nil
		},
	}
}

func checkName(config validation.RuleConfig, id string) []string {
	problems := make([]string, 0)

	if !config.IDPattern.MatchString(id) {
		problems = append(problems, fmt.Sprintf("id must match %s", config.IDPattern))
	}

	verb, _, _ := strings.Cut(id, "__")
	if !slices.Contains(config.ApprovedVerbs, verb) {
		problems = append(problems, fmt.Sprintf("first segment %q is not an approved verb", verb))
	}

	return problems
}
