package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const createResponse = `-- name: CreateResponse :one
INSERT INTO responses (
id, session_id, question_id, question_text, video_url, duration_seconds)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, session_id, question_id, question_text, video_url, duration_seconds, created_at
`

type CreateResponseParams struct {
	ID              uuid.UUID
	SessionID       uuid.NullUUID
	QuestionID      uuid.UUID
	QuestionText    string
	VideoUrl        sql.NullString
	DurationSeconds int32
}

func (q *Queries) CreateResponse(ctx context.Context, arg CreateResponseParams) (Response, error) {
	row := q.db.QueryRowContext(ctx, createResponse,
		arg.ID,
		arg.SessionID,
		arg.QuestionID,
		arg.QuestionText,
		arg.VideoUrl,
		arg.DurationSeconds,
	)
	var i Response
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.QuestionID,
		&i.QuestionText,
		&i.VideoUrl,
		&i.DurationSeconds,
		&i.CreatedAt,
	)
	return i, err
}

const getResponse = `-- name: GetResponse :one
SELECT id, session_id, question_id, question_text, video_url, duration_seconds, created_at FROM responses WHERE id=$1
`

func (q *Queries) GetResponse(ctx context.Context, id uuid.UUID) (Response, error) {
	row := q.db.QueryRowContext(ctx, getResponse, id)
	var i Response
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.QuestionID,
		&i.QuestionText,
		&i.VideoUrl,
		&i.DurationSeconds,
		&i.CreatedAt,
	)
	return i, err
}

const deleteResponse = `-- name: DeleteResponse :execrows
DELETE FROM responses WHERE id=$1
`

func (q *Queries) DeleteResponse(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteResponse, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getResponses = `-- name: GetResponses :many
SELECT id, session_id, question_id, question_text, video_url, duration_seconds, created_at FROM responses ORDER BY created_at DESC
`

func (q *Queries) GetResponses(ctx context.Context) ([]Response, error) {
	rows, err := q.db.QueryContext(ctx, getResponses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Response
	for rows.Next() {
		var i Response
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.QuestionID,
			&i.QuestionText,
			&i.VideoUrl,
			&i.DurationSeconds,
			&i.CreatedAt,
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

const getResponsesBySession = `-- name: GetResponsesBySession :many
SELECT id, session_id, question_id, question_text, video_url, duration_seconds, created_at FROM responses WHERE session_id=$1 ORDER BY created_at DESC
`

func (q *Queries) GetResponsesBySession(ctx context.Context, sessionID uuid.NullUUID) ([]Response, error) {
	rows, err := q.db.QueryContext(ctx, getResponsesBySession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Response
	for rows.Next() {
		var i Response
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.QuestionID,
			&i.QuestionText,
			&i.VideoUrl,
			&i.DurationSeconds,
			&i.CreatedAt,
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
