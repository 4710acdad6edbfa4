package usecase

import (
	"context"
	"fmt"

	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ThawUseCase = (*thawUC)(nil)

// ThawUseCase finishes a restore: copies retrieved bytes back to hot storage
// at the original key and retires the cold-storage archive.
type ThawUseCase interface {
	RestoreToHot(ctx context.Context, msg model.RetrievalCompleteMessage) error
}

type thawUC struct {
	jobs repository.JobRepository
	hot  adapter.HotStore
	cold adapter.ColdStore
	log  *zerolog.Logger
}

func NewThawUseCase(jobs repository.JobRepository, hot adapter.HotStore, cold adapter.ColdStore, logger *zerolog.Logger) *thawUC {
	return &thawUC{jobs: jobs, hot: hot, cold: cold, log: logger}
}

// RestoreToHot re-establishes the invariant that available_in_glacier=false
// implies the result is readable from hot storage. Duplicate deliveries are
// harmless: re-uploading the same bytes is a no-op and deleting an
// already-deleted archive returns nil.
func (u *thawUC) RestoreToHot(ctx context.Context, msg model.RetrievalCompleteMessage) error {
	desc, err := msg.Description()
	if err != nil {
		return err
	}

	defer logging.TraceDuration(u.log, "ThawUC.RestoreToHot")()
	ctx = logging.WithJobID(ctx, desc.JobID)
	log := logging.With(ctx, u.log)

	body, err := u.cold.FetchRetrievalOutput(ctx, msg.RetrievalID)
	if err != nil {
		return fmt.Errorf("fetch retrieval output: %w", err)
	}
	defer body.Close()

	if err := u.hot.Upload(ctx, desc.ResultsBucket, desc.ResultKey, body); err != nil {
		return fmt.Errorf("restore result to hot storage: %w", err)
	}

	if err := u.jobs.SetRestored(ctx, desc.JobID); err != nil {
		return fmt.Errorf("clear glacier flag: %w", err)
	}

	if err := u.cold.DeleteArchive(ctx, msg.ArchiveID); err != nil {
		// The hot copy and the record are already correct; the leaked
		// archive is the only casualty and redelivery retries the delete.
		return fmt.Errorf("delete archive: %w", err)
	}

	metrics.IncJobThawed()
	log.Info().Str("result_key", desc.ResultKey).Msg("result restored to hot storage")
	return nil
}
