// Package progress coordinates answer submission and deletion across
// the relational store and the blob store, keeping each session's
// completed-question counter in step with its recorded answers.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"mime"

	"github.com/google/uuid"

	"github.com/careerprep/portal/internal/database"
	"github.com/careerprep/portal/internal/storage"
)

// ArtifactStore is the blob-store surface the coordinator needs.
type ArtifactStore interface {
	Put(ctx context.Context, data []byte, contentType, key string) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}

// ResponseStore persists answer metadata records. *database.Queries
// satisfies it.
type ResponseStore interface {
	CreateResponse(ctx context.Context, arg database.CreateResponseParams) (database.Response, error)
	GetResponse(ctx context.Context, id uuid.UUID) (database.Response, error)
	DeleteResponse(ctx context.Context, id uuid.UUID) (int64, error)
}

// SessionStore persists session records. *database.Queries satisfies it.
type SessionStore interface {
	GetSession(ctx context.Context, id uuid.UUID) (database.InterviewSession, error)
	IncrementCompletedQuestions(ctx context.Context, id uuid.UUID) (int64, error)
	SetCompletedQuestions(ctx context.Context, arg database.SetCompletedQuestionsParams) (int64, error)
}

// OrphanQueue receives keys of uploaded objects whose metadata record
// was never written, for out-of-band reclamation.
type OrphanQueue interface {
	PublishOrphan(bucket, key string) error
}

type Coordinator struct {
	artifacts ArtifactStore
	responses ResponseStore
	sessions  SessionStore
	bucket    string
	// orphans may be nil; orphaned uploads are then only logged.
	orphans OrphanQueue
}

func NewCoordinator(artifacts ArtifactStore, responses ResponseStore, sessions SessionStore, bucket string, orphans OrphanQueue) *Coordinator {
	return &Coordinator{
		artifacts: artifacts,
		responses: responses,
		sessions:  sessions,
		bucket:    bucket,
		orphans:   orphans,
	}
}

// SubmitParams carries one recorded answer. Video, SessionID and
// QuestionID are required; QuestionText and DurationSeconds may be
// empty.
type SubmitParams struct {
	Video           []byte
	ContentType     string
	SessionID       uuid.UUID
	QuestionID      uuid.UUID
	QuestionText    string
	DurationSeconds int32
}

// SubmitResult is the created record plus the public reference of its
// recording.
type SubmitResult struct {
	Response database.Response
	VideoURL string
}

// Submit stores the recording, inserts the answer record, then bumps
// the session counter. The counter bump is best effort: the response
// record is the source of truth for progress, the counter a cache of
// it, so a failed increment is logged and the submission still
// succeeds. The increment itself is a single atomic UPDATE at the
// store, so concurrent submissions for one session cannot lose counts.
func (c *Coordinator) Submit(ctx context.Context, params SubmitParams) (*SubmitResult, error) {
	switch {
	case len(params.Video) == 0:
		return nil, &ValidationError{Field: "video"}
	case params.SessionID == uuid.Nil:
		return nil, &ValidationError{Field: "session_id"}
	case params.QuestionID == uuid.Nil:
		return nil, &ValidationError{Field: "question_id"}
	}

	contentType := params.ContentType
	if contentType == "" {
		contentType = "video/webm"
	}
	key := storage.ObjectKey(params.SessionID.String(), params.QuestionID.String(), extensionFor(contentType))

	// No record is written without its recording, so an upload failure
	// leaves nothing behind.
	videoURL, err := c.artifacts.Put(ctx, params.Video, contentType, key)
	if err != nil {
		return nil, &ArtifactError{Op: "upload", Err: err}
	}

	response, err := c.responses.CreateResponse(ctx, database.CreateResponseParams{
		ID:              uuid.New(),
		SessionID:       uuid.NullUUID{UUID: params.SessionID, Valid: true},
		QuestionID:      params.QuestionID,
		QuestionText:    params.QuestionText,
		VideoUrl:        sql.NullString{String: videoURL, Valid: true},
		DurationSeconds: params.DurationSeconds,
	})
	if err != nil {
		// The uploaded object is now an orphan. Hand it to the cleanup
		// queue rather than deleting inline, so a slow blob store cannot
		// delay the error response.
		c.reportOrphan(key)
		return nil, &StoreError{Op: "create response", Err: err}
	}

	if _, err := c.sessions.IncrementCompletedQuestions(ctx, params.SessionID); err != nil {
		log.Printf("failed to increment completed_questions for session %s: %v", params.SessionID, err)
	}

	return &SubmitResult{Response: response, VideoURL: videoURL}, nil
}

// Delete removes an answer record along with its recording and walks
// the session counter back one, floored at zero.
//
// Only the record deletion is authoritative: a missing or unreachable
// blob is logged and ignored, as is any failure adjusting the counter.
// The decrement is a plain read-then-write, unlike Submit's atomic
// increment, so concurrent deletes on one session can lose an update.
// That asymmetry is long-standing, documented behavior.
func (c *Coordinator) Delete(ctx context.Context, responseID uuid.UUID) error {
	response, err := c.responses.GetResponse(ctx, responseID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "get response", Err: err}
	}

	if response.VideoUrl.Valid {
		if bucket, key, ok := storage.ParsePublicURL(response.VideoUrl.String); ok {
			if err := c.artifacts.Delete(ctx, bucket, key); err != nil {
				log.Printf("failed to delete recording %s/%s: %v", bucket, key, err)
			}
		}
	}

	rows, err := c.responses.DeleteResponse(ctx, responseID)
	if err != nil {
		return &StoreError{Op: "delete response", Err: err}
	}
	if rows == 0 {
		return ErrNotFound
	}

	if response.SessionID.Valid {
		c.decrementCompleted(ctx, response.SessionID.UUID)
	}
	return nil
}

func (c *Coordinator) decrementCompleted(ctx context.Context, sessionID uuid.UUID) {
	session, err := c.sessions.GetSession(ctx, sessionID)
	if err != nil {
		// The session may have been removed independently; the response
		// deletion already succeeded either way.
		log.Printf("failed to load session %s for counter decrement: %v", sessionID, err)
		return
	}
	completed := session.CompletedQuestions - 1
	if completed < 0 {
		completed = 0
	}
	if _, err := c.sessions.SetCompletedQuestions(ctx, database.SetCompletedQuestionsParams{
		CompletedQuestions: completed,
		ID:                 sessionID,
	}); err != nil {
		log.Printf("failed to set completed_questions for session %s: %v", sessionID, err)
	}
}

func (c *Coordinator) reportOrphan(key string) {
	if c.orphans == nil {
		log.Printf("orphaned recording %s/%s: no cleanup queue configured", c.bucket, key)
		return
	}
	if err := c.orphans.PublishOrphan(c.bucket, key); err != nil {
		log.Printf("failed to enqueue orphaned recording %s/%s: %v", c.bucket, key, err)
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "video/webm":
		return ".webm"
	case "video/mp4":
		return ".mp4"
	case "audio/webm":
		return ".webm"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".webm"
}
