package model

import (
	"path"
	"strings"
	"time"

	"genomics-annotation-service/internal/domain"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
)

// ValidTransition reports whether a job may move from one status to the
// other. Statuses only move forward; everything else is a duplicate delivery
// or a bug in the caller.
func ValidTransition(from, to JobStatus) bool {
	switch from {
	case JobStatusPending:
		return to == JobStatusRunning
	case JobStatusRunning:
		return to == JobStatusCompleted
	default:
		return false
	}
}

// AnnotationJob is the single source of truth for a job's lifecycle.
// Completion fields are written exactly once; after that only ArchiveID and
// AvailableInGlacier ever change.
type AnnotationJob struct {
	ID            string
	UserID        string
	InputFileName string
	InputsBucket  string
	InputKey      string
	SubmitTime    int64
	Status        JobStatus

	CompleteTime  int64
	ResultsBucket string
	ResultKey     string
	LogKey        string

	// ArchiveID is the cold-storage handle; AvailableInGlacier is true only
	// while the result exists solely in cold storage.
	ArchiveID          string
	AvailableInGlacier bool
}

func NewAnnotationJob(id, userID, fileName, inputsBucket, keyPrefix string) (*AnnotationJob, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if userID == "" || fileName == "" || inputsBucket == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &AnnotationJob{
		ID:            id,
		UserID:        userID,
		InputFileName: fileName,
		InputsBucket:  inputsBucket,
		InputKey:      InputObjectKey(keyPrefix, userID, id, fileName),
		SubmitTime:    time.Now().Unix(),
		Status:        JobStatusPending,
	}, nil
}

// Archived reports whether the result currently lives only in cold storage.
func (j *AnnotationJob) Archived() bool {
	return j.AvailableInGlacier && j.ArchiveID != ""
}

// ----- Hot-storage key scheme -----
//
// Inputs are stored as  {prefix}/{user_id}/{job_id}~{file_name}; derived
// outputs drop the "~" so a job's objects sort together:
//   result  {prefix}/{user_id}/{job_id}{base}.annot.vcf
//   log     {prefix}/{user_id}/{job_id}{file_name}.count.log

func InputObjectKey(prefix, userID, jobID, fileName string) string {
	return joinPrefix(prefix, userID) + "/" + jobID + "~" + fileName
}

func ResultObjectKey(prefix, userID, jobID, fileName string) string {
	base := strings.TrimSuffix(fileName, ".vcf")
	return joinPrefix(prefix, userID) + "/" + jobID + base + ".annot.vcf"
}

func LogObjectKey(prefix, userID, jobID, fileName string) string {
	return joinPrefix(prefix, userID) + "/" + jobID + fileName + ".count.log"
}

// FileNameFromInputKey recovers the original upload name from an input
// object key ("{prefix}/{user}/{job}~{name}").
func FileNameFromInputKey(key string) string {
	name := path.Base(key)
	if i := strings.IndexByte(name, '~'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func joinPrefix(prefix, userID string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return userID
	}
	return prefix + "/" + userID
}
