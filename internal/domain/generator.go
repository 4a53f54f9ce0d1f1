package domain

import "context"

// TextGenerator is the generation capability contract: one prompt in, raw
// generated text out. Implementations must return ErrQuotaExceeded (possibly
// wrapped) when the backend reports a quota/rate-limit condition; any other
// error is treated as fatal by the caller.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
