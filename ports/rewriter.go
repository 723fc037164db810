package ports

import "context"

// RewriteContext carries display hints for the rewriting service.
type RewriteContext struct {
	DatasetName string
	Category    string
}

// Rewriter is the optional text-rewriting collaborator. It may be absent
// or unreachable; callers must treat any error as a signal to keep the
// original text. The rewrite is cosmetic only and never affects insight
// selection or ordering.
type Rewriter interface {
	Rewrite(ctx context.Context, text string, meta RewriteContext) (string, error)
}
