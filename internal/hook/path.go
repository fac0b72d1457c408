package hook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tollgate/tollgate/internal/config"
	"github.com/tollgate/tollgate/internal/policy"
)

// Path check categories.
const (
	CategoryPathTraversal = "path-traversal"
	CategorySymlinkTarget = "symlink-target"
)

// PathValidator gates file writes. The target is resolved against the
// project root; escapes and symlinked final components block. Parent
// directories may legitimately be symlinks (linked worktrees) and are not
// rejected, which is also why the escape check is lexical rather than
// following links. Configured path globs then apply to the root-relative
// path, default-permissive.
type PathValidator struct {
	// Root is the project root. When empty, the invocation cwd is used.
	Root string
}

// Name returns the validator's identifier.
func (v *PathValidator) Name() string { return "path" }

// Validate renders a decision for one proposed write.
func (v *PathValidator) Validate(ctx *Context, cfg *config.Config) (policy.Decision, error) {
	call, ok := DecodeCall(ctx).(WriteCall)
	if !ok || call.FilePath == "" {
		return policy.Allow(), nil
	}

	root := v.Root
	if root == "" {
		root = ctx.Cwd
	}
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return policy.Ask("cannot determine project root: " + err.Error()), nil
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return policy.Ask("cannot resolve project root: " + err.Error()), nil
	}

	target := call.FilePath
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return policy.Ask("cannot resolve target path: " + err.Error()), nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return policy.Block(CategoryPathTraversal+": target path escapes the project root", target), nil
	}

	// Only the final component is checked for links; Lstat deliberately
	// does not follow them.
	if fi, err := os.Lstat(target); err == nil {
		if fi.Mode()&os.ModeSymlink != 0 {
			return policy.Block(CategorySymlinkTarget+": refusing to write through a symlink", target), nil
		}
	} else if !os.IsNotExist(err) {
		return policy.Ask("cannot inspect target path: " + err.Error()), nil
	}

	matches := policy.Evaluate(filepath.ToSlash(rel), cfg.PathRules)
	return policy.Reduce(matches), nil
}
