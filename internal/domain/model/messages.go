package model

import (
	"encoding/json"
	"fmt"

	"genomics-annotation-service/internal/domain"
)

// Queue payloads. Each queue carries exactly one of these, JSON-encoded.
// Delivery is at-least-once: every consumer must tolerate seeing the same
// payload twice.

// SubmissionMessage announces a freshly created job to the ingest workers.
type SubmissionMessage struct {
	JobID         string    `json:"job_id"`
	UserID        string    `json:"user_id"`
	InputFileName string    `json:"input_file_name"`
	InputsBucket  string    `json:"s3_inputs_bucket"`
	InputKey      string    `json:"s3_key_input_file"`
	SubmitTime    int64     `json:"submit_time"`
	Status        JobStatus `json:"job_status"`
}

// CompletionMessage is published when results land in hot storage. The same
// payload feeds the email notifier (out of scope) and, after the delivery
// delay, the archival queue.
type CompletionMessage struct {
	JobID         string `json:"job_id"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email,omitempty"`
	ResultsBucket string `json:"s3_results_bucket"`
	ResultKey     string `json:"s3_key_result_file"`
	LogKey        string `json:"s3_key_log_file"`
	CompleteTime  int64  `json:"complete_time"`
}

// RestoreStartMessage signals a subscription upgrade.
type RestoreStartMessage struct {
	UserID string `json:"user_id"`
}

// JobDescription rides along with a cold-storage retrieval so the thaw
// worker can route the bytes without a table lookup.
type JobDescription struct {
	JobID         string `json:"job_id"`
	ResultsBucket string `json:"s3_results_bucket"`
	ResultKey     string `json:"s3_key_result_file"`
}

// RetrievalCompleteMessage is the cold store's "archive-retrieval finished"
// notification. JobDescription is the JSON we attached when initiating.
type RetrievalCompleteMessage struct {
	RetrievalID    string `json:"JobId"`
	ArchiveID      string `json:"ArchiveId"`
	JobDescription string `json:"JobDescription"`
}

func (m *RetrievalCompleteMessage) Description() (JobDescription, error) {
	var d JobDescription
	if err := json.Unmarshal([]byte(m.JobDescription), &d); err != nil {
		return JobDescription{}, fmt.Errorf("%w: job description: %v", domain.ErrMalformedMessage, err)
	}
	if d.JobID == "" || d.ResultsBucket == "" || d.ResultKey == "" {
		return JobDescription{}, fmt.Errorf("%w: job description missing fields", domain.ErrMalformedMessage)
	}
	return d, nil
}

func ParseSubmissionMessage(body []byte) (SubmissionMessage, error) {
	var m SubmissionMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return SubmissionMessage{}, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
	}
	if m.JobID == "" || m.UserID == "" || m.InputsBucket == "" || m.InputKey == "" {
		return SubmissionMessage{}, fmt.Errorf("%w: submission missing fields", domain.ErrMalformedMessage)
	}
	return m, nil
}

func ParseCompletionMessage(body []byte) (CompletionMessage, error) {
	var m CompletionMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return CompletionMessage{}, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
	}
	if m.JobID == "" || m.UserID == "" || m.ResultsBucket == "" || m.ResultKey == "" {
		return CompletionMessage{}, fmt.Errorf("%w: completion missing fields", domain.ErrMalformedMessage)
	}
	return m, nil
}

func ParseRestoreStartMessage(body []byte) (RestoreStartMessage, error) {
	var m RestoreStartMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return RestoreStartMessage{}, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
	}
	if m.UserID == "" {
		return RestoreStartMessage{}, fmt.Errorf("%w: restore start missing user_id", domain.ErrMalformedMessage)
	}
	return m, nil
}

func ParseRetrievalCompleteMessage(body []byte) (RetrievalCompleteMessage, error) {
	var m RetrievalCompleteMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return RetrievalCompleteMessage{}, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
	}
	if m.RetrievalID == "" || m.ArchiveID == "" || m.JobDescription == "" {
		return RetrievalCompleteMessage{}, fmt.Errorf("%w: retrieval complete missing fields", domain.ErrMalformedMessage)
	}
	return m, nil
}
