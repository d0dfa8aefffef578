package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/careerprep/portal/internal/database"
	"github.com/careerprep/portal/internal/generator"
	"github.com/careerprep/portal/internal/progress"
	"github.com/careerprep/portal/internal/resume"
)

// uploads are short recorded answers; anything past this is rejected
const maxUploadBytes = 100 << 20

// HealthHandler reports liveness
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := fmt.Fprintln(w, "OK"); err != nil {
		log.Printf("failed to write health response: %v", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeProgressError(w http.ResponseWriter, err error) {
	var verr *progress.ValidationError
	var aerr *progress.ArtifactError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, progress.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.As(err, &aerr):
		http.Error(w, "recording storage unavailable", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type createSessionRequest struct {
	QuestionSetID  uuid.UUID `json:"question_set_id"`
	TotalQuestions int32     `json:"total_questions"`
}

// CreateSessionHandler starts a new attempt at a question set
func (s *Server) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.QuestionSetID == uuid.Nil || req.TotalQuestions <= 0 {
		http.Error(w, "question_set_id and total_questions are required", http.StatusBadRequest)
		return
	}

	session, err := s.Store.CreateSession(r.Context(), database.CreateSessionParams{
		ID:             uuid.New(),
		UserID:         userID(r),
		QuestionSetID:  req.QuestionSetID,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		log.Printf("failed to create session: %v", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	session, err := s.Store.GetSession(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("failed to get session %s: %v", id, err)
		http.Error(w, "failed to get session", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.Store.GetSessionsByUser(r.Context(), userID(r))
	if err != nil {
		log.Printf("failed to list sessions: %v", err)
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

// UploadAnswerHandler accepts one recorded answer as multipart form
// data: the video file plus session_id, question_id, and optional
// question_text and duration_seconds.
func (s *Server) UploadAnswerHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		http.Error(w, "missing required field: video", http.StatusBadRequest)
		return
	}
	defer file.Close()
	video, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	sessionID, _ := uuid.Parse(r.FormValue("session_id"))
	questionID, _ := uuid.Parse(r.FormValue("question_id"))
	duration, _ := strconv.Atoi(r.FormValue("duration_seconds"))

	result, err := s.Progress.Submit(r.Context(), progress.SubmitParams{
		Video:           video,
		ContentType:     header.Header.Get("Content-Type"),
		SessionID:       sessionID,
		QuestionID:      questionID,
		QuestionText:    r.FormValue("question_text"),
		DurationSeconds: int32(duration),
	})
	if err != nil {
		writeProgressError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"response":  result.Response,
		"video_url": result.VideoURL,
	})
}

func (s *Server) DeleteAnswerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid response id", http.StatusBadRequest)
		return
	}
	if err := s.Progress.Delete(r.Context(), id); err != nil {
		writeProgressError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) ListAnswersHandler(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("session_id"); raw != "" {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}
		responses, err := s.Store.GetResponsesBySession(r.Context(), uuid.NullUUID{UUID: sessionID, Valid: true})
		if err != nil {
			log.Printf("failed to list responses for session %s: %v", sessionID, err)
			http.Error(w, "failed to list responses", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, responses)
		return
	}

	responses, err := s.Store.GetResponses(r.Context())
	if err != nil {
		log.Printf("failed to list responses: %v", err)
		http.Error(w, "failed to list responses", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, responses)
}

type feedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FeedbackHandler asks the generator to review a transcribed answer.
func (s *Server) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" || req.Answer == "" {
		http.Error(w, "question and answer are required", http.StatusBadRequest)
		return
	}

	input := fmt.Sprintf("Question:\n%s\n\nAnswer:\n%s", req.Question, req.Answer)
	raw, err := s.Feedback.Run(r.Context(), userID(r).String(), input)
	if err != nil {
		log.Printf("feedback generation failed: %v", err)
		raw = ""
	}
	respondJSON(w, http.StatusOK, generator.ParseFeedback(raw))
}

// ResumeReviewHandler accepts a resume file (pdf, docx or plain text)
// and an optional target job description.
func (s *Server) ResumeReviewHandler(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readResumeText(w, r)
	if !ok {
		return
	}

	input := fmt.Sprintf("Resume:\n%s", text)
	if jd := r.FormValue("job_description"); jd != "" {
		input = fmt.Sprintf("Job Description:\n%s\n\n%s", jd, input)
	}
	raw, err := s.ResumeReview.Run(r.Context(), userID(r).String(), input)
	if err != nil {
		log.Printf("resume review generation failed: %v", err)
		raw = ""
	}
	respondJSON(w, http.StatusOK, generator.ParseResumeReview(raw))
}

// CoverLetterHandler drafts a cover letter from a resume file and a
// target job.
func (s *Server) CoverLetterHandler(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readResumeText(w, r)
	if !ok {
		return
	}
	jobTitle := r.FormValue("job_title")
	jobDescription := r.FormValue("job_description")
	if jobTitle == "" && jobDescription == "" {
		http.Error(w, "job_title or job_description is required", http.StatusBadRequest)
		return
	}

	input := fmt.Sprintf("Job Title:\n%s\n\nJob Description:\n%s\n\nResume:\n%s", jobTitle, jobDescription, text)
	raw, err := s.CoverLetter.Run(r.Context(), userID(r).String(), input)
	if err != nil {
		log.Printf("cover letter generation failed: %v", err)
		raw = ""
	}
	respondJSON(w, http.StatusOK, generator.ParseCoverLetter(raw))
}

func (s *Server) readResumeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return "", false
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		http.Error(w, "missing required field: resume", http.StatusBadRequest)
		return "", false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return "", false
	}

	text, err := resume.ExtractText(header.Header.Get("Content-Type"), data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return text, true
}
