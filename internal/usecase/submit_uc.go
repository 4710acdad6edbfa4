package usecase

import (
	"context"
	"fmt"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SubmitUseCase = (*submitUC)(nil)

// SubmitUseCase is the whole interface the front end needs from the core:
// create a PENDING record and announce it, plus read-side lookups.
type SubmitUseCase interface {
	SubmitJob(ctx context.Context, userID, fileName string) (*model.AnnotationJob, error)
	GetJob(ctx context.Context, userID, jobID string) (*model.AnnotationJob, error)
	ListJobs(ctx context.Context, userID string) ([]*model.AnnotationJob, error)
}

type submitUC struct {
	jobs         repository.JobRepository
	requests     adapter.NotificationBus
	inputsBucket string
	inputsPrefix string
	log          *zerolog.Logger
}

func NewSubmitUseCase(
	jobs repository.JobRepository,
	requests adapter.NotificationBus,
	inputsBucket, inputsPrefix string,
	logger *zerolog.Logger,
) *submitUC {
	return &submitUC{
		jobs:         jobs,
		requests:     requests,
		inputsBucket: inputsBucket,
		inputsPrefix: inputsPrefix,
		log:          logger,
	}
}

func (u *submitUC) SubmitJob(ctx context.Context, userID, fileName string) (*model.AnnotationJob, error) {
	defer logging.TraceDuration(u.log, "SubmitUC.SubmitJob")()

	job, err := model.NewAnnotationJob("", userID, fileName, u.inputsBucket, u.inputsPrefix)
	if err != nil {
		return nil, err
	}
	if err := u.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job record: %w", err)
	}

	msg := model.SubmissionMessage{
		JobID:         job.ID,
		UserID:        job.UserID,
		InputFileName: job.InputFileName,
		InputsBucket:  job.InputsBucket,
		InputKey:      job.InputKey,
		SubmitTime:    job.SubmitTime,
		Status:        job.Status,
	}
	if err := u.requests.Publish(ctx, msg); err != nil {
		// The record exists but no worker will ever see it; surface the
		// failure so the upload flow can tell the user.
		return nil, fmt.Errorf("publish submission: %w", err)
	}

	logging.With(logging.WithJobID(ctx, job.ID), u.log).Info().Msg("job submitted")
	return job, nil
}

func (u *submitUC) GetJob(ctx context.Context, userID, jobID string) (*model.AnnotationJob, error) {
	job, err := u.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.ErrNotAuthorized
	}
	return job, nil
}

func (u *submitUC) ListJobs(ctx context.Context, userID string) ([]*model.AnnotationJob, error) {
	return u.jobs.ListByUser(ctx, userID)
}
