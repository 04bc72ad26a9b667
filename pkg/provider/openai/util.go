package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/adrianliechti/lahde/pkg/provider"

	"github.com/openai/openai-go/v3"
)

// convertError classifies client errors. Cancellation is passed through so
// a caller that went away is not reported as an upstream failure.
func convertError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apierr *openai.Error

	if errors.As(err, &apierr) {
		return fmt.Errorf("%w: status %d: %w", provider.ErrUpstream, apierr.StatusCode, err)
	}

	return fmt.Errorf("%w: %w", provider.ErrUpstream, err)
}
