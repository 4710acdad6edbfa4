package web

import (
	"context"
	"sync"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
)

type fakeSubmitUC struct {
	mu   sync.Mutex
	jobs map[string]*model.AnnotationJob

	submitErr error
}

func newFakeSubmitUC() *fakeSubmitUC {
	return &fakeSubmitUC{jobs: make(map[string]*model.AnnotationJob)}
}

func (f *fakeSubmitUC) add(j *model.AnnotationJob) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[j.ID] = j
}

func (f *fakeSubmitUC) SubmitJob(ctx context.Context, userID, fileName string) (*model.AnnotationJob, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	job, err := model.NewAnnotationJob("", userID, fileName, "gas-inputs", "in")
	if err != nil {
		return nil, err
	}
	f.add(job)
	return job, nil
}

func (f *fakeSubmitUC) GetJob(ctx context.Context, userID, jobID string) (*model.AnnotationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if j.UserID != userID {
		return nil, domain.ErrNotAuthorized
	}
	return j, nil
}

func (f *fakeSubmitUC) ListJobs(ctx context.Context, userID string) ([]*model.AnnotationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AnnotationJob
	for _, j := range f.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeUpgradeUC struct {
	mu         sync.Mutex
	subscribed []string

	err error
}

func (f *fakeUpgradeUC) Subscribe(ctx context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, userID)
	return nil
}

type fakeProfileRepo struct {
	mu    sync.Mutex
	store map[string]*model.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{store: make(map[string]*model.UserProfile)}
}

func (f *fakeProfileRepo) add(p model.UserProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[p.ID] = &p
}

func (f *fakeProfileRepo) Find(ctx context.Context, userID string) (*model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) SetRole(ctx context.Context, userID string, role model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role = role
	return nil
}
