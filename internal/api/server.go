// Package api exposes the portal's request handlers: interview
// sessions and answers, resume review, and cover letter generation.
package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/careerprep/portal/internal/database"
	"github.com/careerprep/portal/internal/progress"
)

// Store is the slice of the query layer the handlers read and write
// directly. *database.Queries satisfies it.
type Store interface {
	CreateSession(ctx context.Context, arg database.CreateSessionParams) (database.InterviewSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (database.InterviewSession, error)
	GetSessionsByUser(ctx context.Context, userID uuid.UUID) ([]database.InterviewSession, error)
	GetResponses(ctx context.Context) ([]database.Response, error)
	GetResponsesBySession(ctx context.Context, sessionID uuid.NullUUID) ([]database.Response, error)
}

// ProgressService handles answer submission and deletion.
type ProgressService interface {
	Submit(ctx context.Context, params progress.SubmitParams) (*progress.SubmitResult, error)
	Delete(ctx context.Context, responseID uuid.UUID) error
}

// ContentGenerator turns a prompt input into model text.
type ContentGenerator interface {
	Run(ctx context.Context, userID, input string) (string, error)
}

type Server struct {
	Store    Store
	Progress ProgressService

	Feedback     ContentGenerator
	ResumeReview ContentGenerator
	CoverLetter  ContentGenerator
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", HealthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.RequireUser)
	api.HandleFunc("/interviews/sessions", s.CreateSessionHandler).Methods("POST")
	api.HandleFunc("/interviews/sessions", s.ListSessionsHandler).Methods("GET")
	api.HandleFunc("/interviews/sessions/{id}", s.GetSessionHandler).Methods("GET")
	api.HandleFunc("/interviews/answers", s.UploadAnswerHandler).Methods("POST")
	api.HandleFunc("/interviews/answers", s.ListAnswersHandler).Methods("GET")
	api.HandleFunc("/interviews/answers/{id}", s.DeleteAnswerHandler).Methods("DELETE")
	api.HandleFunc("/interviews/feedback", s.FeedbackHandler).Methods("POST")
	api.HandleFunc("/resume/review", s.ResumeReviewHandler).Methods("POST")
	api.HandleFunc("/resume/cover-letter", s.CoverLetterHandler).Methods("POST")
	return r
}
