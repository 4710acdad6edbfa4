package engine

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"

	"genomics-annotation-service/internal/domain/ports/adapter"
)

var _ adapter.AnnotationLauncher = (*ProcessLauncher)(nil)

// ProcessLauncher starts the annotator wrapper as a detached child process.
// The wrapper owns the run from there: it waits for the annotator and
// reports completion itself, so the ingest worker never blocks on a run.
type ProcessLauncher struct {
	wrapper string
	log     *zerolog.Logger
}

func NewProcessLauncher(wrapper string, logger *zerolog.Logger) *ProcessLauncher {
	l := logger.With().Str("component", "ProcessLauncher").Logger()
	return &ProcessLauncher{wrapper: wrapper, log: &l}
}

func (p *ProcessLauncher) Launch(ctx context.Context, inputPath, jobID, userID string) error {
	// Deliberately not CommandContext: the run must outlive the worker's
	// message-handling context.
	cmd := exec.Command(p.wrapper, inputPath, jobID, userID)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start annotator wrapper: %w", err)
	}
	p.log.Info().Str("job_id", jobID).Str("user_id", userID).Int("pid", cmd.Process.Pid).Msg("annotator launched")

	// Reap the child so finished runs do not linger as zombies.
	go func() {
		if err := cmd.Wait(); err != nil {
			p.log.Error().Err(err).Str("job_id", jobID).Msg("annotator wrapper exited with error")
		}
	}()
	return nil
}
