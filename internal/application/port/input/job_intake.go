package input

import (
	"context"

	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
)

// JobIntake runs one complete intake session for a validated payload.
type JobIntake interface {
	Run(ctx context.Context, payload entity.Payload) (*entity.SubmissionResult, error)
}
