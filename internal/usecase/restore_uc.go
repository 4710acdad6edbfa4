package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ RestoreUseCase = (*restoreUC)(nil)

// RestoreUseCase reacts to a subscription upgrade by requesting retrieval of
// every archived result the user owns. Fire-and-forget: the retrievals
// complete minutes to hours later and arrive as thaw-queue messages.
type RestoreUseCase interface {
	InitiateUserRestore(ctx context.Context, userID string) error
}

type restoreUC struct {
	jobs repository.JobRepository
	cold adapter.ColdStore
	log  *zerolog.Logger
}

func NewRestoreUseCase(jobs repository.JobRepository, cold adapter.ColdStore, logger *zerolog.Logger) *restoreUC {
	return &restoreUC{jobs: jobs, cold: cold, log: logger}
}

// InitiateUserRestore requests one retrieval per archived job, expedited
// first and standard when expedited capacity is rejected. Each job is
// independent: a failed request is logged and counted but never blocks the
// others, and the triggering message is still consumed. Re-publishing the
// upgrade event retries the stragglers.
func (u *restoreUC) InitiateUserRestore(ctx context.Context, userID string) error {
	defer logging.TraceDuration(u.log, "RestoreUC.InitiateUserRestore")()
	ctx = logging.WithUserID(ctx, userID)
	log := logging.With(ctx, u.log)

	all, err := u.jobs.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list jobs for user: %w", err)
	}

	requested := 0
	for _, job := range all {
		if !job.Archived() {
			continue
		}
		desc, err := json.Marshal(model.JobDescription{
			JobID:         job.ID,
			ResultsBucket: job.ResultsBucket,
			ResultKey:     job.ResultKey,
		})
		if err != nil {
			log.Error().Err(err).Str("job_id", job.ID).Msg("encode job description")
			continue
		}

		tier := adapter.TierExpedited
		retrievalID, err := u.cold.InitiateRetrieval(ctx, job.ArchiveID, tier, string(desc))
		if err != nil {
			// Expedited capacity can be rejected; fall back to standard.
			metrics.IncRestoreRequest(string(tier), "failed")
			tier = adapter.TierStandard
			retrievalID, err = u.cold.InitiateRetrieval(ctx, job.ArchiveID, tier, string(desc))
		}
		if err != nil {
			metrics.IncRestoreRequest(string(tier), "failed")
			log.Error().Err(err).Str("job_id", job.ID).Msg("retrieval request failed")
			continue
		}
		metrics.IncRestoreRequest(string(tier), "ok")
		requested++
		log.Info().Str("job_id", job.ID).Str("retrieval_id", retrievalID).Str("tier", string(tier)).Msg("retrieval requested")
	}

	log.Info().Int("requested", requested).Msg("restore initiated")
	return nil
}
