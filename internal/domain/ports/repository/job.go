package repository

import (
	"context"

	"genomics-annotation-service/internal/domain/model"
)

// Completion carries the fields written exactly once when a job finishes.
type Completion struct {
	ResultsBucket string
	ResultKey     string
	LogKey        string
	CompleteTime  int64
}

// JobRepository wraps the durable job table. All mutations are scoped to one
// job id; TransitionStatus is the only guarded write and doubles as the
// pipeline's optimistic concurrency control.
type JobRepository interface {
	// Create inserts a new record; domain.ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, job *model.AnnotationJob) error

	FindByID(ctx context.Context, jobID string) (*model.AnnotationJob, error)
	ListByUser(ctx context.Context, userID string) ([]*model.AnnotationJob, error)

	// TransitionStatus sets job_status to `to` only if it currently equals
	// `from`; otherwise domain.ErrPreconditionFailed. At-least-once delivery
	// means a rejected transition is an expected outcome, not a fault.
	TransitionStatus(ctx context.Context, jobID string, from, to model.JobStatus) error

	// SetCompletion writes the completion fields and forces job_status to
	// COMPLETED. Unguarded: duplicate engine runs are last-write-wins.
	SetCompletion(ctx context.Context, jobID string, c Completion) error

	// SetArchived records the cold-storage handle and flips
	// available_in_glacier on. SetRestored flips it back off.
	SetArchived(ctx context.Context, jobID, archiveID string) error
	SetRestored(ctx context.Context, jobID string) error
}
