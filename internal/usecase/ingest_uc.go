package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ IngestUseCase = (*ingestUC)(nil)

// IngestUseCase turns a submission message into a running annotation:
// input staged to scratch, engine launched, PENDING flipped to RUNNING.
type IngestUseCase interface {
	// ProcessSubmission returns nil when the triggering message may be
	// deleted. A rejected PENDING→RUNNING transition is a duplicate
	// delivery, not an error; the engine may have been launched twice and
	// is expected to tolerate that.
	ProcessSubmission(ctx context.Context, msg model.SubmissionMessage) error
}

type ingestUC struct {
	jobs       repository.JobRepository
	hot        adapter.HotStore
	launcher   adapter.AnnotationLauncher
	scratchDir string
	log        *zerolog.Logger
}

func NewIngestUseCase(
	jobs repository.JobRepository,
	hot adapter.HotStore,
	launcher adapter.AnnotationLauncher,
	scratchDir string,
	logger *zerolog.Logger,
) *ingestUC {
	return &ingestUC{
		jobs:       jobs,
		hot:        hot,
		launcher:   launcher,
		scratchDir: scratchDir,
		log:        logger,
	}
}

// ScratchPath returns the job-scoped local path for a staged input.
func ScratchPath(scratchDir, userID, jobID, fileName string) string {
	return filepath.Join(scratchDir, userID, jobID, fileName)
}

func (u *ingestUC) ProcessSubmission(ctx context.Context, msg model.SubmissionMessage) error {
	defer logging.TraceDuration(u.log, "IngestUC.ProcessSubmission")()
	ctx = logging.WithJobID(logging.WithUserID(ctx, msg.UserID), msg.JobID)
	log := logging.With(ctx, u.log)

	fileName := msg.InputFileName
	if fileName == "" {
		fileName = model.FileNameFromInputKey(msg.InputKey)
	}
	local := ScratchPath(u.scratchDir, msg.UserID, msg.JobID, fileName)

	if err := u.hot.Download(ctx, msg.InputsBucket, msg.InputKey, local); err != nil {
		metrics.IncJobIngested("failed")
		return fmt.Errorf("stage input %s/%s: %w", msg.InputsBucket, msg.InputKey, err)
	}

	// Fire-and-forget: the wrapper process reports completion on its own.
	if err := u.launcher.Launch(ctx, local, msg.JobID, msg.UserID); err != nil {
		metrics.IncJobIngested("failed")
		return fmt.Errorf("launch annotation engine: %w", err)
	}

	err := u.jobs.TransitionStatus(ctx, msg.JobID, model.JobStatusPending, model.JobStatusRunning)
	switch {
	case err == nil:
		metrics.IncJobIngested("launched")
		log.Info().Msg("job running")
	case errors.Is(err, domain.ErrPreconditionFailed):
		// Redelivered message; a previous delivery already won the transition.
		metrics.IncJobIngested("duplicate")
		log.Debug().Msg("job already past PENDING, duplicate delivery")
	default:
		metrics.IncJobIngested("failed")
		return fmt.Errorf("mark job running: %w", err)
	}

	return nil
}
