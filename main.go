// tollgate - PreToolUse policy gate for autonomous-agent tool invocations
//
// The hook intercepts proposed tool calls (shell commands, file writes,
// multi-agent team/messaging operations) and renders one of three verdicts:
//
//	allow (exit 0) | ask (exit 0 + JSON prompt) | block (exit 2 + reason)
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "Bash|Write|TeamCreate|TeamDelete|SendMessage|TaskCreate|TaskUpdate",
//	    "hooks": [{"type": "command", "command": "tollgate"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Bash", "tool_input": {"command": "git push --force"}}' | tollgate
package main

import (
	"os"

	"github.com/tollgate/tollgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
