package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tollgate/tollgate/internal/hook"
	"github.com/tollgate/tollgate/internal/logger"
	"github.com/tollgate/tollgate/internal/policy"
	"github.com/tollgate/tollgate/internal/state"
)

// askOutput is the structured confirmation prompt emitted on stdout when
// the decision is ask.
type askOutput struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// runHook is the default command that processes stdin for one decision.
// This is the only place where a Decision becomes the process exit/output
// contract.
func runHook(cmd *cobra.Command, args []string) {
	var store *state.Store
	if dir, err := state.DefaultDir(); err == nil {
		store = state.NewStore(dir)
	} else {
		logger.Debug("state directory unavailable", "error", err)
	}

	runner := hook.NewRunner(projectRoot, store)
	res := runner.Run(os.Stdin)

	if dryRun {
		fmt.Fprintf(os.Stderr, "%s", strings.ToUpper(string(res.Decision.Action)))
		if res.Decision.Reason != "" {
			fmt.Fprintf(os.Stderr, ": %s", res.Decision.Reason)
		}
		fmt.Fprintln(os.Stderr)
		return
	}

	switch res.Decision.Action {
	case policy.ActionBlock:
		fmt.Fprintf(os.Stderr, "[BLOCKED] %s\n", res.Decision.Reason)
		if res.Decision.Detail != "" {
			fmt.Fprintln(os.Stderr, res.Decision.Detail)
		}
		os.Exit(res.Decision.ExitCode())

	case policy.ActionAsk:
		data, err := json.Marshal(askOutput{Result: "ask", Message: res.Decision.Reason})
		if err != nil {
			// Fail open: an unprintable ask degrades to allow.
			logger.Debug("failed to marshal ask output", "error", err)
			return
		}
		fmt.Println(string(data))
	}
	// Allow is silent: exit 0, no output.
}
