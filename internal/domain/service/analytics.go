package service

import (
	"context"
	"errors"
	"fmt"

	"FinVerdict/internal/domain/models"
)

// ErrNarrativeUnavailable is returned when no language model is configured.
var ErrNarrativeUnavailable = errors.New("narrative generator unavailable")

// SentimentClassifier scores texts; the result has one entry per input, in order.
type SentimentClassifier interface {
	Classify(ctx context.Context, texts []string) ([]models.SentimentScores, error)
}

// NarrativeGenerator writes a short analyst-style paragraph for a verdict.
type NarrativeGenerator interface {
	Generate(ctx context.Context, tech models.CombinedVerdict, sent models.SentimentAggregate) (string, error)
}

// CollaboratorError wraps a failure from an external dependency.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// NewCollaboratorError wraps err, or returns nil if err is nil.
func NewCollaboratorError(name string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Collaborator: name, Err: err}
}
