// Package extract turns a free-form client inquiry into structured search
// criteria. A Gemini-backed primary strategy is tried first; any failure
// falls through to a deterministic rule table, so extraction as a whole
// never fails once the input passes length validation.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"propscout/models"
)

// ErrQueryTooShort rejects inquiries below the configured minimum length
// before any extraction is attempted.
var ErrQueryTooShort = errors.New("inquiry text too short")

type Strategy interface {
	Name() string
	Extract(ctx context.Context, rawText string) (*models.Criteria, error)
}

type Extractor struct {
	primary  Strategy // may be nil when no API key is configured
	fallback Strategy
	minLen   int
}

func New(primary, fallback Strategy, minLen int) *Extractor {
	return &Extractor{primary: primary, fallback: fallback, minLen: minLen}
}

// Extract runs the primary strategy and falls back unconditionally on any
// error. The returned bool reports whether the fallback produced the result.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*models.Criteria, bool, error) {
	trimmed := strings.TrimSpace(rawText)
	if len([]rune(trimmed)) < e.minLen {
		return nil, false, fmt.Errorf("%w: need at least %d characters", ErrQueryTooShort, e.minLen)
	}

	if e.primary != nil {
		criteria, err := e.primary.Extract(ctx, trimmed)
		if err == nil {
			criteria.Normalize()
			return criteria, false, nil
		}
		log.Printf("Warning: %s extraction failed, using fallback: %v", e.primary.Name(), err)
	}

	criteria, err := e.fallback.Extract(ctx, trimmed)
	if err != nil {
		return nil, true, fmt.Errorf("fallback extraction: %w", err)
	}
	criteria.Normalize()
	return criteria, true, nil
}
