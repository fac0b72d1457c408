// Package hook implements the tool-call interception engine for tollgate:
// the invocation harness, the per-tool validators, and the fail-open
// boundary that governs every error path.
package hook

import "encoding/json"

// Tool names recognized by the engine. Any other tool name is outside the
// engine's authority and passes through as allow.
const (
	ToolBash        = "Bash"
	ToolWrite       = "Write"
	ToolTeamCreate  = "TeamCreate"
	ToolTeamDelete  = "TeamDelete"
	ToolSendMessage = "SendMessage"
	ToolTaskCreate  = "TaskCreate"
	ToolTaskUpdate  = "TaskUpdate"
	ToolTaskGet     = "TaskGet"
	ToolTaskList    = "TaskList"
)

// Context is the JSON invocation context delivered on stdin for one
// proposed tool call. It carries no identity beyond the single invocation
// and is never persisted.
type Context struct {
	SessionID  string          `json:"session_id"`
	Cwd        string          `json:"cwd"`
	ToolName   string          `json:"tool_name"`
	ToolInput  json.RawMessage `json:"tool_input"`
	ToolOutput json.RawMessage `json:"tool_output,omitempty"`
}

// Call is the decoded, tool-specific payload of one invocation. Exactly one
// variant is produced per context. Payloads that do not decode cleanly
// become PassThroughCall rather than being probed field by field.
type Call interface {
	isCall()
}

// BashCall is a proposed shell command execution.
type BashCall struct {
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Timeout     int    `json:"timeout,omitempty"`
}

// WriteCall is a proposed file write.
type WriteCall struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content,omitempty"`
}

// Teammate is a member agent within a proposed team.
type Teammate struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Model string `json:"model,omitempty"`
}

// TeamCreateCall is a proposed multi-agent team creation.
type TeamCreateCall struct {
	Name      string     `json:"name"`
	Teammates []Teammate `json:"teammates"`
}

// TeamDeleteCall is a proposed team teardown.
type TeamDeleteCall struct {
	Name string `json:"name"`
}

// SendMessageCall is a proposed inter-agent message.
type SendMessageCall struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// TaskCall covers the task lifecycle operations. ReadOnly is set for
// get/list operations, which have no side effects to guard.
type TaskCall struct {
	TaskID      string `json:"task_id,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Description string `json:"description,omitempty"`
	ReadOnly    bool   `json:"-"`
}

// PassThroughCall marks an invocation the engine renders no opinion on.
type PassThroughCall struct {
	Reason string
}

func (BashCall) isCall()        {}
func (WriteCall) isCall()       {}
func (TeamCreateCall) isCall()  {}
func (TeamDeleteCall) isCall()  {}
func (SendMessageCall) isCall() {}
func (TaskCall) isCall()        {}
func (PassThroughCall) isCall() {}

// DecodeCall maps a context to its tagged variant.
func DecodeCall(ctx *Context) Call {
	switch ctx.ToolName {
	case ToolBash:
		var c BashCall
		if err := json.Unmarshal(ctx.ToolInput, &c); err != nil {
			return PassThroughCall{Reason: "malformed Bash payload"}
		}
		return c
	case ToolWrite:
		var c WriteCall
		if err := json.Unmarshal(ctx.ToolInput, &c); err != nil {
			return PassThroughCall{Reason: "malformed Write payload"}
		}
		return c
	case ToolTeamCreate:
		var c TeamCreateCall
		if err := json.Unmarshal(ctx.ToolInput, &c); err != nil {
			return PassThroughCall{Reason: "malformed TeamCreate payload"}
		}
		return c
	case ToolTeamDelete:
		var c TeamDeleteCall
		if err := json.Unmarshal(ctx.ToolInput, &c); err != nil {
			return PassThroughCall{Reason: "malformed TeamDelete payload"}
		}
		return c
	case ToolSendMessage:
		var c SendMessageCall
		if err := json.Unmarshal(ctx.ToolInput, &c); err != nil {
			return PassThroughCall{Reason: "malformed SendMessage payload"}
		}
		return c
	case ToolTaskCreate, ToolTaskUpdate:
		var c TaskCall
		if err := json.Unmarshal(ctx.ToolInput, &c); err != nil {
			return PassThroughCall{Reason: "malformed task payload"}
		}
		return c
	case ToolTaskGet, ToolTaskList:
		var c TaskCall
		// Read payloads are not inspected; a malformed one still reads.
		_ = json.Unmarshal(ctx.ToolInput, &c)
		c.ReadOnly = true
		return c
	default:
		return PassThroughCall{Reason: "unregistered tool"}
	}
}
