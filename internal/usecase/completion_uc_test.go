//go:build !integration

package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"genomics-annotation-service/internal/domain/model"
)

// stageRun lays out a finished annotation run in a temp scratch directory
// and returns the input path the engine was given.
func stageRun(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "U1", "J1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(dir, "sample.vcf")
	for name, content := range map[string]string{
		"sample.vcf":           "##fileformat=VCFv4.2\n",
		"sample.annot.vcf":     "annotated\n",
		"sample.vcf.count.log": "42 variants\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return input
}

func TestCompletionUC_Report(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	jobs := newMemJobRepo()
	profiles := newMemProfileRepo()
	hot := newMemHotStore()
	bus := newMemBus()

	profiles.add(model.UserProfile{ID: "U1", Email: "u1@example.org", Role: model.RoleFree})
	job, _ := model.NewAnnotationJob("J1", "U1", "sample.vcf", "gas-inputs", "in")
	job.Status = model.JobStatusRunning
	if err := jobs.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	input := stageRun(t)
	uc := NewCompletionUseCase(jobs, profiles, hot, bus, "gas-results", "out", nopLogger())
	if err := uc.Report(ctx, "J1", "U1", input); err != nil {
		t.Fatalf("Report: %v", err)
	}

	resultKey := "out/U1/J1sample.annot.vcf"
	logKey := "out/U1/J1sample.vcf.count.log"
	if string(hot.data("gas-results", resultKey)) != "annotated\n" {
		t.Fatalf("result object missing or wrong at %s", resultKey)
	}
	if string(hot.data("gas-results", logKey)) != "42 variants\n" {
		t.Fatalf("log object missing or wrong at %s", logKey)
	}

	got, _ := jobs.FindByID(ctx, "J1")
	if got.Status != model.JobStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", got.Status)
	}
	if got.ResultKey != resultKey || got.LogKey != logKey || got.ResultsBucket != "gas-results" {
		t.Fatalf("completion fields wrong: %+v", got)
	}
	if got.CompleteTime == 0 {
		t.Fatalf("complete time not recorded")
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(bus.published))
	}
	note, ok := bus.published[0].(model.CompletionMessage)
	if !ok {
		t.Fatalf("unexpected payload type %T", bus.published[0])
	}
	if note.JobID != "J1" || note.UserEmail != "u1@example.org" || note.ResultKey != resultKey {
		t.Fatalf("unexpected notification: %+v", note)
	}

	if _, err := os.Stat(filepath.Dir(input)); !os.IsNotExist(err) {
		t.Fatalf("scratch directory should be removed")
	}
}

func TestCompletionUC_UploadFailureSurfaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	jobs := newMemJobRepo()
	profiles := newMemProfileRepo()
	hot := newMemHotStore()
	hot.uploadErr = os.ErrPermission
	bus := newMemBus()

	job, _ := model.NewAnnotationJob("J1", "U1", "sample.vcf", "gas-inputs", "in")
	job.Status = model.JobStatusRunning
	if err := jobs.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	input := stageRun(t)
	uc := NewCompletionUseCase(jobs, profiles, hot, bus, "gas-results", "out", nopLogger())
	if err := uc.Report(ctx, "J1", "U1", input); err == nil {
		t.Fatalf("expected upload error to surface")
	}

	got, _ := jobs.FindByID(ctx, "J1")
	if got.Status != model.JobStatusRunning {
		t.Fatalf("job must not be COMPLETED after failed upload, got %s", got.Status)
	}
	if len(bus.published) != 0 {
		t.Fatalf("no notification should go out on failure")
	}
	if _, err := os.Stat(input); err != nil {
		t.Fatalf("scratch must be kept for the retry: %v", err)
	}
}

func TestCompletionUC_MissingProfileStillCompletes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	jobs := newMemJobRepo()
	profiles := newMemProfileRepo() // U1 absent
	hot := newMemHotStore()
	bus := newMemBus()

	job, _ := model.NewAnnotationJob("J1", "U1", "sample.vcf", "gas-inputs", "in")
	job.Status = model.JobStatusRunning
	if err := jobs.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	uc := NewCompletionUseCase(jobs, profiles, hot, bus, "gas-results", "out", nopLogger())
	if err := uc.Report(ctx, "J1", "U1", stageRun(t)); err != nil {
		t.Fatalf("Report: %v", err)
	}

	note := bus.published[0].(model.CompletionMessage)
	if note.UserEmail != "" {
		t.Fatalf("expected empty email, got %q", note.UserEmail)
	}
	got, _ := jobs.FindByID(ctx, "J1")
	if got.Status != model.JobStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", got.Status)
	}
}
