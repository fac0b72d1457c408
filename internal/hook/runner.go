package hook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/tollgate/tollgate/internal/config"
	"github.com/tollgate/tollgate/internal/logger"
	"github.com/tollgate/tollgate/internal/metrics"
	"github.com/tollgate/tollgate/internal/policy"
	"github.com/tollgate/tollgate/internal/state"
)

// DefaultReadTimeout bounds the wait for the invocation context on stdin.
// When it expires the invocation proceeds with an empty context (allow)
// rather than blocking the host indefinitely.
const DefaultReadTimeout = 5 * time.Second

// Validator renders a decision for one tool invocation.
type Validator interface {
	// Name returns the validator's identifier.
	Name() string
	// Validate checks the invocation context against the loaded policy.
	Validate(ctx *Context, cfg *config.Config) (policy.Decision, error)
}

// Result carries the decision plus observability fields for the caller.
type Result struct {
	Decision policy.Decision
	Tool     string
	Duration time.Duration
	// Err records a failure that was degraded to allow. It is for
	// operators only and never affects the decision.
	Err error
}

// Runner binds one validator to one invocation. It owns the fail-open
// contract: every failure in reading, decoding, loading, or evaluating maps
// to allow at this single boundary, by rule rather than by accident.
type Runner struct {
	validators  map[string]Validator
	projectRoot string
	readTimeout time.Duration
}

// NewRunner builds a runner with the standard validator registry. The
// store may be nil, which disables the session team ceiling.
func NewRunner(projectRoot string, store *state.Store) *Runner {
	r := &Runner{
		validators:  make(map[string]Validator),
		projectRoot: projectRoot,
		readTimeout: DefaultReadTimeout,
	}
	r.Register(&BashValidator{}, ToolBash)
	r.Register(&PathValidator{Root: projectRoot}, ToolWrite)
	r.Register(&MultiAgentValidator{Store: store},
		ToolTeamCreate, ToolTeamDelete, ToolSendMessage,
		ToolTaskCreate, ToolTaskUpdate, ToolTaskGet, ToolTaskList)
	return r
}

// Register binds a validator to one or more tool names.
func (r *Runner) Register(v Validator, toolNames ...string) {
	for _, name := range toolNames {
		r.validators[name] = v
	}
}

// SetReadTimeout overrides the stdin read bound.
func (r *Runner) SetReadTimeout(d time.Duration) {
	r.readTimeout = d
}

// Run processes one invocation end to end and records the outcome. It
// never fails: any internal error yields an allow result.
func (r *Runner) Run(stdin io.Reader) Result {
	start := time.Now()
	res := r.run(stdin)
	res.Duration = time.Since(start)

	entry := metrics.Entry{
		Tool:       res.Tool,
		Action:     string(res.Decision.Action),
		Reason:     res.Decision.Reason,
		DurationMs: float64(res.Duration.Microseconds()) / 1000.0,
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	metrics.Record(entry)

	return res
}

func (r *Runner) run(stdin io.Reader) (res Result) {
	// The machine-wide escape transition: a panic anywhere below reports
	// allow, never a crash and never a block.
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic during evaluation, failing open", "panic", rec)
			res = Result{
				Tool:     res.Tool,
				Decision: policy.Allow(),
				Err:      fmt.Errorf("panic during evaluation: %v", rec),
			}
		}
	}()

	raw, err := readBounded(stdin, r.readTimeout)
	if err != nil {
		logger.Debug("failed to read input, failing open", "error", err)
		return Result{Decision: policy.Allow(), Err: fmt.Errorf("failed to read input: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		logger.Debug("empty invocation context")
		return Result{Decision: policy.Allow()}
	}

	var ctx Context
	if err := json.Unmarshal(raw, &ctx); err != nil {
		logger.Debug("invalid invocation context, failing open", "error", err)
		return Result{Decision: policy.Allow(), Err: fmt.Errorf("invalid invocation context: %w", err)}
	}

	v, ok := r.validators[ctx.ToolName]
	if !ok {
		// Outside this engine's authority.
		logger.Debug("no validator registered", "tool", ctx.ToolName)
		return Result{Tool: ctx.ToolName, Decision: policy.Allow()}
	}

	root := r.projectRoot
	if root == "" {
		root = ctx.Cwd
	}
	cfg, cfgErr := config.Load(root)
	if cfgErr != nil {
		logger.Debug("policy load degraded to defaults", "error", cfgErr)
	}

	decision, err := v.Validate(&ctx, cfg)
	if err != nil {
		logger.Debug("validator failed, failing open", "validator", v.Name(), "error", err)
		return Result{Tool: ctx.ToolName, Decision: policy.Allow(), Err: err}
	}

	logger.Debug("evaluated",
		"tool", ctx.ToolName,
		"action", decision.Action,
		"reason", decision.Reason,
		"policy", cfg.Source)
	return Result{Tool: ctx.ToolName, Decision: decision, Err: cfgErr}
}

// readBounded reads all of r, giving up after the timeout. Expiry is not an
// error; the caller proceeds with an empty context.
func readBounded(r io.Reader, timeout time.Duration) ([]byte, error) {
	type readResult struct {
		data []byte
		err  error
	}
	ch := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(r)
		ch <- readResult{data: data, err: err}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-time.After(timeout):
		logger.Debug("timed out waiting for invocation context", "timeout", timeout)
		return nil, nil
	}
}
