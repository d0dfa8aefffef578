package database

import (
	"context"

	"github.com/google/uuid"
)

const createSession = `-- name: CreateSession :one
INSERT INTO interview_sessions (
id, user_id, question_set_id, total_questions)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, question_set_id, total_questions, completed_questions, created_at, updated_at
`

type CreateSessionParams struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	QuestionSetID  uuid.UUID
	TotalQuestions int32
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (InterviewSession, error) {
	row := q.db.QueryRowContext(ctx, createSession,
		arg.ID,
		arg.UserID,
		arg.QuestionSetID,
		arg.TotalQuestions,
	)
	var i InterviewSession
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.QuestionSetID,
		&i.TotalQuestions,
		&i.CompletedQuestions,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSession = `-- name: GetSession :one
SELECT id, user_id, question_set_id, total_questions, completed_questions, created_at, updated_at FROM interview_sessions WHERE id=$1
`

func (q *Queries) GetSession(ctx context.Context, id uuid.UUID) (InterviewSession, error) {
	row := q.db.QueryRowContext(ctx, getSession, id)
	var i InterviewSession
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.QuestionSetID,
		&i.TotalQuestions,
		&i.CompletedQuestions,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSessionsByUser = `-- name: GetSessionsByUser :many
SELECT id, user_id, question_set_id, total_questions, completed_questions, created_at, updated_at FROM interview_sessions WHERE user_id=$1 ORDER BY created_at DESC
`

func (q *Queries) GetSessionsByUser(ctx context.Context, userID uuid.UUID) ([]InterviewSession, error) {
	rows, err := q.db.QueryContext(ctx, getSessionsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InterviewSession
	for rows.Next() {
		var i InterviewSession
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.QuestionSetID,
			&i.TotalQuestions,
			&i.CompletedQuestions,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const incrementCompletedQuestions = `-- name: IncrementCompletedQuestions :execrows
UPDATE interview_sessions
SET completed_questions = completed_questions + 1,
    updated_at = CURRENT_TIMESTAMP
WHERE id=$1
`

// IncrementCompletedQuestions bumps the counter in a single UPDATE so
// concurrent submissions for the same session cannot lose updates.
func (q *Queries) IncrementCompletedQuestions(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, incrementCompletedQuestions, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setCompletedQuestions = `-- name: SetCompletedQuestions :execrows
UPDATE interview_sessions
SET completed_questions = $1,
    updated_at = CURRENT_TIMESTAMP
WHERE id=$2
`

type SetCompletedQuestionsParams struct {
	CompletedQuestions int32
	ID                 uuid.UUID
}

func (q *Queries) SetCompletedQuestions(ctx context.Context, arg SetCompletedQuestionsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setCompletedQuestions, arg.CompletedQuestions, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
