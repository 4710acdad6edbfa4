//go:build !integration

package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memJobRepo is a small in-memory job table used by unit tests. Its
// TransitionStatus is conditional the same way the real table's is.
type memJobRepo struct {
	mu sync.Mutex

	store map[string]*model.AnnotationJob

	createErr     error
	transitionErr error
	completionErr error
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{store: make(map[string]*model.AnnotationJob)}
}

func (m *memJobRepo) Create(ctx context.Context, job *model.AnnotationJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[job.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *job
	m.store[job.ID] = &cp
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, jobID string) (*model.AnnotationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobRepo) ListByUser(ctx context.Context, userID string) ([]*model.AnnotationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.AnnotationJob
	for _, j := range m.store {
		if j.UserID == userID {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memJobRepo) TransitionStatus(ctx context.Context, jobID string, from, to model.JobStatus) error {
	if m.transitionErr != nil {
		return m.transitionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[jobID]
	if !ok {
		return domain.ErrPreconditionFailed
	}
	if j.Status != from {
		return domain.ErrPreconditionFailed
	}
	j.Status = to
	return nil
}

func (m *memJobRepo) SetCompletion(ctx context.Context, jobID string, c repository.Completion) error {
	if m.completionErr != nil {
		return m.completionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = model.JobStatusCompleted
	j.CompleteTime = c.CompleteTime
	j.ResultsBucket = c.ResultsBucket
	j.ResultKey = c.ResultKey
	j.LogKey = c.LogKey
	return nil
}

func (m *memJobRepo) SetArchived(ctx context.Context, jobID, archiveID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	j.ArchiveID = archiveID
	j.AvailableInGlacier = true
	return nil
}

func (m *memJobRepo) SetRestored(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	j.AvailableInGlacier = false
	return nil
}

var _ repository.JobRepository = (*memJobRepo)(nil)

type memProfileRepo struct {
	mu    sync.Mutex
	store map[string]*model.UserProfile

	findErr error
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{store: make(map[string]*model.UserProfile)}
}

func (m *memProfileRepo) add(p model.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[p.ID] = &p
}

func (m *memProfileRepo) Find(ctx context.Context, userID string) (*model.UserProfile, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfileRepo) SetRole(ctx context.Context, userID string, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role = role
	return nil
}

var _ repository.ProfileRepository = (*memProfileRepo)(nil)

// memHotStore keeps objects in a map keyed bucket/key.
type memHotStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	downloadErr error
	uploadErr   error
	getErr      error

	deletes []string
}

func newMemHotStore() *memHotStore {
	return &memHotStore{objects: make(map[string][]byte)}
}

func objKey(bucket, key string) string { return bucket + "/" + key }

func (m *memHotStore) put(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objKey(bucket, key)] = data
}

func (m *memHotStore) has(bucket, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[objKey(bucket, key)]
	return ok
}

func (m *memHotStore) data(bucket, key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[objKey(bucket, key)]
}

func (m *memHotStore) Download(ctx context.Context, bucket, key, localPath string) error {
	if m.downloadErr != nil {
		return m.downloadErr
	}
	m.mu.Lock()
	data, ok := m.objects[objKey(bucket, key)]
	m.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(localPath, data, 0o644)
}

func (m *memHotStore) Upload(ctx context.Context, bucket, key string, body io.Reader) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.put(bucket, key, data)
	return nil
}

func (m *memHotStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	data, ok := m.objects[objKey(bucket, key)]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memHotStore) Delete(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objKey(bucket, key))
	m.deletes = append(m.deletes, objKey(bucket, key))
	return nil
}

var _ adapter.HotStore = (*memHotStore)(nil)

type memRetrieval struct {
	archiveID   string
	description string
	data        []byte
}

// memColdStore fakes the archive vault. Retrieval is instantaneous.
type memColdStore struct {
	mu         sync.Mutex
	archives   map[string][]byte
	retrievals map[string]memRetrieval
	nextID     int

	rejectExpedited bool
	archiveErr      error
	initiateErr     error

	tiersUsed []adapter.RetrievalTier
}

func newMemColdStore() *memColdStore {
	return &memColdStore{
		archives:   make(map[string][]byte),
		retrievals: make(map[string]memRetrieval),
	}
}

func (m *memColdStore) Archive(ctx context.Context, description string, body io.Reader) (string, error) {
	if m.archiveErr != nil {
		return "", m.archiveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("arch-%d", m.nextID)
	m.archives[id] = data
	return id, nil
}

func (m *memColdStore) InitiateRetrieval(ctx context.Context, archiveID string, tier adapter.RetrievalTier, description string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiersUsed = append(m.tiersUsed, tier)
	if m.initiateErr != nil {
		return "", m.initiateErr
	}
	if m.rejectExpedited && tier == adapter.TierExpedited {
		return "", fmt.Errorf("insufficient capacity for expedited retrieval")
	}
	data, ok := m.archives[archiveID]
	if !ok {
		return "", domain.ErrNotFound
	}
	m.nextID++
	id := fmt.Sprintf("retr-%d", m.nextID)
	// Retrieval output survives a later DeleteArchive, as it does for real.
	m.retrievals[id] = memRetrieval{archiveID: archiveID, description: description, data: append([]byte(nil), data...)}
	return id, nil
}

func (m *memColdStore) FetchRetrievalOutput(ctx context.Context, retrievalID string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.retrievals[retrievalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(r.data)), nil
}

func (m *memColdStore) DeleteArchive(ctx context.Context, archiveID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.archives, archiveID)
	return nil
}

var _ adapter.ColdStore = (*memColdStore)(nil)

type memBus struct {
	mu        sync.Mutex
	published []any

	pubErr error
}

func newMemBus() *memBus { return &memBus{} }

func (m *memBus) Publish(ctx context.Context, payload any) error {
	if m.pubErr != nil {
		return m.pubErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, payload)
	return nil
}

var _ adapter.NotificationBus = (*memBus)(nil)

type launchRecord struct {
	inputPath string
	jobID     string
	userID    string
}

type fakeLauncher struct {
	mu       sync.Mutex
	launches []launchRecord

	launchErr error
}

func newFakeLauncher() *fakeLauncher { return &fakeLauncher{} }

func (f *fakeLauncher) Launch(ctx context.Context, inputPath, jobID, userID string) error {
	if f.launchErr != nil {
		return f.launchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches = append(f.launches, launchRecord{inputPath: inputPath, jobID: jobID, userID: userID})
	return nil
}

var _ adapter.AnnotationLauncher = (*fakeLauncher)(nil)
