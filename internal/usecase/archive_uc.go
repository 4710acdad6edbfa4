package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ArchiveUseCase = (*archiveUC)(nil)

// ArchiveUseCase moves a free-tier user's result from hot to cold storage
// once the post-completion grace window (the queue's delivery delay) has
// passed.
type ArchiveUseCase interface {
	ProcessCompletion(ctx context.Context, msg model.CompletionMessage) error
}

type archiveUC struct {
	jobs     repository.JobRepository
	profiles repository.ProfileRepository
	hot      adapter.HotStore
	cold     adapter.ColdStore
	log      *zerolog.Logger
}

func NewArchiveUseCase(
	jobs repository.JobRepository,
	profiles repository.ProfileRepository,
	hot adapter.HotStore,
	cold adapter.ColdStore,
	logger *zerolog.Logger,
) *archiveUC {
	return &archiveUC{
		jobs:     jobs,
		profiles: profiles,
		hot:      hot,
		cold:     cold,
		log:      logger,
	}
}

// ProcessCompletion archives one completed job. The hot copy is deleted only
// after both the cold-storage write and the table update succeed; until then
// a failure leaves the message to be redelivered with the data intact. The
// trailing hot delete is idempotent, so redelivery after a partial run just
// re-archives.
func (u *archiveUC) ProcessCompletion(ctx context.Context, msg model.CompletionMessage) error {
	defer logging.TraceDuration(u.log, "ArchiveUC.ProcessCompletion")()
	ctx = logging.WithJobID(logging.WithUserID(ctx, msg.UserID), msg.JobID)
	log := logging.With(ctx, u.log)

	profile, err := u.profiles.Find(ctx, msg.UserID)
	if err != nil {
		metrics.IncJobArchived("failed")
		return fmt.Errorf("profile lookup: %w", err)
	}
	if profile.IsPremium() {
		metrics.IncJobArchived("premium_skip")
		log.Debug().Msg("premium user, result stays hot")
		return nil
	}

	body, err := u.hot.Get(ctx, msg.ResultsBucket, msg.ResultKey)
	if err != nil {
		metrics.IncJobArchived("failed")
		return fmt.Errorf("read result from hot storage: %w", err)
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		metrics.IncJobArchived("failed")
		return fmt.Errorf("read result body: %w", err)
	}

	archiveID, err := u.cold.Archive(ctx, msg.JobID, bytes.NewReader(data))
	if err != nil {
		metrics.IncJobArchived("failed")
		return fmt.Errorf("write to cold storage: %w", err)
	}
	metrics.ObserveArchiveBytes(int64(len(data)))

	if err := u.jobs.SetArchived(ctx, msg.JobID, archiveID); err != nil {
		// The cold copy exists but the record does not know; leave the hot
		// copy alone and let redelivery retry. The orphan archive is
		// harmless and superseded by the retry's upload.
		metrics.IncJobArchived("failed")
		return fmt.Errorf("record archive id: %w", err)
	}

	if err := u.hot.Delete(ctx, msg.ResultsBucket, msg.ResultKey); err != nil {
		metrics.IncJobArchived("failed")
		return fmt.Errorf("delete hot copy: %w", err)
	}

	metrics.IncJobArchived("archived")
	log.Info().Str("archive_id", archiveID).Msg("result archived to cold storage")
	return nil
}
