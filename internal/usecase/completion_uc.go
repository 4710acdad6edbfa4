package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ CompletionUseCase = (*completionUC)(nil)

// CompletionUseCase is invoked by the engine wrapper once the annotation
// toolchain has produced its result and log files on local disk.
type CompletionUseCase interface {
	Report(ctx context.Context, jobID, userID, inputPath string) error
}

const uploadAttempts = 3

type completionUC struct {
	jobs          repository.JobRepository
	profiles      repository.ProfileRepository
	hot           adapter.HotStore
	results       adapter.NotificationBus
	resultsBucket string
	resultsPrefix string
	log           *zerolog.Logger
}

func NewCompletionUseCase(
	jobs repository.JobRepository,
	profiles repository.ProfileRepository,
	hot adapter.HotStore,
	results adapter.NotificationBus,
	resultsBucket, resultsPrefix string,
	logger *zerolog.Logger,
) *completionUC {
	return &completionUC{
		jobs:          jobs,
		profiles:      profiles,
		hot:           hot,
		results:       results,
		resultsBucket: resultsBucket,
		resultsPrefix: resultsPrefix,
		log:           logger,
	}
}

// Report uploads the two artifacts, records completion, publishes the
// notification that feeds the email notifier and (delayed) the archival
// queue, and clears the job's scratch directory. A job stuck without
// COMPLETED is invisible to its owner, so uploads and the table write get
// bounded retries before the error surfaces.
func (u *completionUC) Report(ctx context.Context, jobID, userID, inputPath string) error {
	defer logging.TraceDuration(u.log, "CompletionUC.Report")()
	ctx = logging.WithJobID(logging.WithUserID(ctx, userID), jobID)
	log := logging.With(ctx, u.log)

	fileName := model.FileNameFromInputKey(inputPath)
	base := inputPath[:len(inputPath)-len(".vcf")]
	resultPath := base + ".annot.vcf"
	logPath := inputPath + ".count.log"

	resultKey := model.ResultObjectKey(u.resultsPrefix, userID, jobID, fileName)
	logKey := model.LogObjectKey(u.resultsPrefix, userID, jobID, fileName)

	if err := u.uploadFile(ctx, resultPath, resultKey); err != nil {
		return fmt.Errorf("upload result: %w", err)
	}
	if err := u.uploadFile(ctx, logPath, logKey); err != nil {
		return fmt.Errorf("upload log: %w", err)
	}

	completeTime := time.Now().Unix()
	c := repository.Completion{
		ResultsBucket: u.resultsBucket,
		ResultKey:     resultKey,
		LogKey:        logKey,
		CompleteTime:  completeTime,
	}
	var err error
	for attempt := 0; attempt < uploadAttempts; attempt++ {
		if err = u.jobs.SetCompletion(ctx, jobID, c); err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("record completion failed, retrying")
	}
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	metrics.IncJobCompleted()

	// Best-effort email address; the notification is still useful without it.
	var email string
	if profile, perr := u.profiles.Find(ctx, userID); perr == nil {
		email = profile.Email
	} else {
		log.Warn().Err(perr).Msg("profile lookup failed, publishing without email")
	}

	note := model.CompletionMessage{
		JobID:         jobID,
		UserID:        userID,
		UserEmail:     email,
		ResultsBucket: u.resultsBucket,
		ResultKey:     resultKey,
		LogKey:        logKey,
		CompleteTime:  completeTime,
	}
	if err := u.results.Publish(ctx, note); err != nil {
		// The record already says COMPLETED; losing the notification only
		// skips email and archival for this job.
		log.Error().Err(err).Msg("publish completion notification failed")
	}

	if err := os.RemoveAll(filepath.Dir(inputPath)); err != nil {
		log.Warn().Err(err).Msg("scratch cleanup failed")
	}

	log.Info().Str("result_key", resultKey).Msg("job completed")
	return nil
}

func (u *completionUC) uploadFile(ctx context.Context, localPath, key string) error {
	var err error
	for attempt := 0; attempt < uploadAttempts; attempt++ {
		var fd *os.File
		fd, err = os.Open(localPath)
		if err != nil {
			return err
		}
		err = u.hot.Upload(ctx, u.resultsBucket, key, fd)
		fd.Close()
		if err == nil {
			return nil
		}
		u.log.Warn().Err(err).Str("key", key).Int("attempt", attempt+1).Msg("upload failed, retrying")
	}
	return err
}
