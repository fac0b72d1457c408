package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tollgate/tollgate/internal/config"
	"github.com/tollgate/tollgate/internal/policy"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the policy file and show compiled rules",
	Long: `Validate loads the policy configuration and displays all compiled rules
and limits.

This is useful for:
- Checking that your policy.toml syntax is correct
- Seeing which rules survived compilation (bad patterns are dropped)
- Debugging pattern matching issues`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		fmt.Printf("Policy source degraded to embedded defaults: %v\n\n", err)
	}

	fmt.Printf("Policy source: %s\n\n", cfg.Source)

	fmt.Printf("Limits: max_active_teams=%d max_teammates=%d max_message_bytes=%d\n\n",
		cfg.Limits.MaxActiveTeams, cfg.Limits.MaxTeammates, cfg.Limits.MaxMessageBytes)

	printRules("Command rules", cfg.CommandRules)
	printRules("Path rules", cfg.PathRules)
	printRules("Message rules", cfg.MessageRules)

	fmt.Printf("Wrappers: %d\n", len(cfg.Wrappers))
	for _, w := range cfg.Wrappers {
		fmt.Printf("  - %s: %s\n", w.Name, w.Regex.String())
	}

	return nil
}

func printRules(title string, rules []policy.CompiledRule) {
	fmt.Printf("%s: %d\n", title, len(rules))
	for _, r := range rules {
		pattern := r.Glob
		if pattern == "" {
			pattern = r.Regex.String()
		}
		fmt.Printf("  - [%s] %s: %s\n", r.Action, r.Category, pattern)
	}
	fmt.Println()
}
