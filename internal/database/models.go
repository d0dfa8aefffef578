package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type InterviewSession struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	QuestionSetID      uuid.UUID
	TotalQuestions     int32
	CompletedQuestions int32
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Response struct {
	ID              uuid.UUID
	SessionID       uuid.NullUUID
	QuestionID      uuid.UUID
	QuestionText    string
	VideoUrl        sql.NullString
	DurationSeconds int32
	CreatedAt       time.Time
}
