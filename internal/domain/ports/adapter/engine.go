package adapter

import "context"

// AnnotationLauncher starts the annotation engine for one job and returns as
// soon as the process is running. Completion is reported out-of-band by the
// engine wrapper; the launcher never waits. Running the engine twice on the
// same input is safe and produces the same output.
type AnnotationLauncher interface {
	Launch(ctx context.Context, inputPath, jobID, userID string) error
}
