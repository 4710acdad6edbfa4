package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
)

// jobResponse is the API shape of a job record.
type jobResponse struct {
	JobID         string `json:"job_id"`
	UserID        string `json:"user_id"`
	InputFileName string `json:"input_file_name"`
	InputsBucket  string `json:"s3_inputs_bucket"`
	InputKey      string `json:"s3_key_input_file"`
	SubmitTime    int64  `json:"submit_time"`
	JobStatus     string `json:"job_status"`
	CompleteTime  int64  `json:"complete_time,omitempty"`
	ResultsBucket string `json:"s3_results_bucket,omitempty"`
	ResultKey     string `json:"s3_key_result_file,omitempty"`
	LogKey        string `json:"s3_key_log_file,omitempty"`
	ResultNotice  string `json:"result_notice,omitempty"`
}

func toJobResponse(j *model.AnnotationJob, role string) jobResponse {
	resp := jobResponse{
		JobID:         j.ID,
		UserID:        j.UserID,
		InputFileName: j.InputFileName,
		InputsBucket:  j.InputsBucket,
		InputKey:      j.InputKey,
		SubmitTime:    j.SubmitTime,
		JobStatus:     string(j.Status),
		CompleteTime:  j.CompleteTime,
		ResultsBucket: j.ResultsBucket,
		ResultKey:     j.ResultKey,
		LogKey:        j.LogKey,
	}
	if j.AvailableInGlacier {
		// The result object is out of the hot bucket; what the user can do
		// about it depends on their tier.
		if role == string(model.RolePremium) {
			resp.ResultNotice = "Your result file is being restored and will be available shortly."
		} else {
			resp.ResultNotice = "Upgrade to a Premium account to restore access to this result file."
		}
		resp.ResultKey = ""
	}
	return resp
}

type loginRequest struct {
	UserID string `json:"user_id"`
}

// loginHandler mints a session for an existing account. Dev-mode stand-in
// for the identity provider.
func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		profile, err := s.profiles.Find(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "Unknown account", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to look up account", http.StatusInternalServerError)
			return
		}

		if _, err := s.auth.Mint(w, profile.ID, string(profile.Role)); err != nil {
			http.Error(w, "Failed to mint session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(profile)
	}
}

func (s *Server) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

type jobCreateRequest struct {
	FileName string `json:"file_name"`
}

func (s *Server) jobsCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims := sessionFrom(ctx)

		var req jobCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		job, err := s.submitUC.SubmitJob(ctx, claims.Subject, req.FileName)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to submit job", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(toJobResponse(job, claims.Role))
	}
}

func (s *Server) jobsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims := sessionFrom(ctx)

		jobs, err := s.submitUC.ListJobs(ctx, claims.Subject)
		if err != nil {
			http.Error(w, "Failed to list jobs", http.StatusInternalServerError)
			return
		}

		resp := make([]jobResponse, 0, len(jobs))
		for _, j := range jobs {
			resp = append(resp, toJobResponse(j, claims.Role))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}

func (s *Server) jobGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims := sessionFrom(ctx)
		jobID := chi.URLParam(r, "jobID")

		job, err := s.submitUC.GetJob(ctx, claims.Subject, jobID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "Job not found", http.StatusNotFound)
			case errors.Is(err, domain.ErrNotAuthorized):
				http.Error(w, "Forbidden", http.StatusForbidden)
			default:
				http.Error(w, "Failed to get job", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(toJobResponse(job, claims.Role))
	}
}

func (s *Server) subscribeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims := sessionFrom(ctx)

		if err := s.upgradeUC.Subscribe(ctx, claims.Subject); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "Unknown account", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to upgrade account", http.StatusInternalServerError)
			return
		}

		// Re-mint so the session reflects the new role immediately.
		if _, err := s.auth.Mint(w, claims.Subject, string(model.RolePremium)); err != nil {
			http.Error(w, "Failed to refresh session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"user_id": claims.Subject,
			"role":    string(model.RolePremium),
		})
	}
}
