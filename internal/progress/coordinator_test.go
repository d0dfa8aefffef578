package progress

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerprep/portal/internal/database"
)

type fakeArtifacts struct {
	mu        sync.Mutex
	putErr    error
	deleteErr error
	puts      []string
	deletes   []string
}

func (f *fakeArtifacts) Put(_ context.Context, _ []byte, _, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, key)
	return "https://cdn.test/storage/v1/object/public/recordings/" + key, nil
}

func (f *fakeArtifacts) Delete(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, bucket+"/"+key)
	return f.deleteErr
}

type fakeResponses struct {
	mu        sync.Mutex
	createErr error
	deleteErr error
	records   map[uuid.UUID]database.Response
}

func newFakeResponses() *fakeResponses {
	return &fakeResponses{records: make(map[uuid.UUID]database.Response)}
}

func (f *fakeResponses) CreateResponse(_ context.Context, arg database.CreateResponseParams) (database.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return database.Response{}, f.createErr
	}
	r := database.Response{
		ID:              arg.ID,
		SessionID:       arg.SessionID,
		QuestionID:      arg.QuestionID,
		QuestionText:    arg.QuestionText,
		VideoUrl:        arg.VideoUrl,
		DurationSeconds: arg.DurationSeconds,
	}
	f.records[arg.ID] = r
	return r, nil
}

func (f *fakeResponses) GetResponse(_ context.Context, id uuid.UUID) (database.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return database.Response{}, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeResponses) DeleteResponse(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if _, ok := f.records[id]; !ok {
		return 0, nil
	}
	delete(f.records, id)
	return 1, nil
}

func (f *fakeResponses) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeSessions struct {
	mu       sync.Mutex
	getErr   error
	incErr   error
	setErr   error
	sessions map[uuid.UUID]database.InterviewSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[uuid.UUID]database.InterviewSession)}
}

func (f *fakeSessions) add(s database.InterviewSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = s
}

func (f *fakeSessions) completed(id uuid.UUID) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id].CompletedQuestions
}

func (f *fakeSessions) GetSession(_ context.Context, id uuid.UUID) (database.InterviewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return database.InterviewSession{}, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return database.InterviewSession{}, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeSessions) IncrementCompletedQuestions(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incErr != nil {
		return 0, f.incErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return 0, nil
	}
	s.CompletedQuestions++
	f.sessions[id] = s
	return 1, nil
}

func (f *fakeSessions) SetCompletedQuestions(_ context.Context, arg database.SetCompletedQuestionsParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return 0, f.setErr
	}
	s, ok := f.sessions[arg.ID]
	if !ok {
		return 0, nil
	}
	s.CompletedQuestions = arg.CompletedQuestions
	f.sessions[arg.ID] = s
	return 1, nil
}

type fakeQueue struct {
	mu      sync.Mutex
	err     error
	orphans []string
}

func (f *fakeQueue) PublishOrphan(bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.orphans = append(f.orphans, bucket+"/"+key)
	return nil
}

func newTestCoordinator() (*Coordinator, *fakeArtifacts, *fakeResponses, *fakeSessions, *fakeQueue) {
	artifacts := &fakeArtifacts{}
	responses := newFakeResponses()
	sessions := newFakeSessions()
	queue := &fakeQueue{}
	c := NewCoordinator(artifacts, responses, sessions, "recordings", queue)
	return c, artifacts, responses, sessions, queue
}

func validParams(sessionID uuid.UUID) SubmitParams {
	return SubmitParams{
		Video:           []byte("webm bytes"),
		ContentType:     "video/webm",
		SessionID:       sessionID,
		QuestionID:      uuid.New(),
		QuestionText:    "Tell me about yourself",
		DurationSeconds: 10,
	}
}

func TestSubmitCreatesResponseAndAdvancesCounter(t *testing.T) {
	c, _, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5, CompletedQuestions: 2})

	result, err := c.Submit(context.Background(), validParams(sessionID))
	require.NoError(t, err)

	assert.Equal(t, int32(10), result.Response.DurationSeconds)
	assert.Contains(t, result.VideoURL, "/object/public/recordings/")
	assert.Equal(t, result.VideoURL, result.Response.VideoUrl.String)
	assert.Equal(t, 1, responses.count())
	assert.Equal(t, int32(3), sessions.completed(sessionID))
}

func TestSubmitValidation(t *testing.T) {
	c, artifacts, responses, _, _ := newTestCoordinator()

	tests := []struct {
		name   string
		params SubmitParams
		field  string
	}{
		{"missing video", SubmitParams{SessionID: uuid.New(), QuestionID: uuid.New()}, "video"},
		{"missing session", SubmitParams{Video: []byte("x"), QuestionID: uuid.New()}, "session_id"},
		{"missing question", SubmitParams{Video: []byte("x"), SessionID: uuid.New()}, "question_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Submit(context.Background(), tt.params)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Empty(t, artifacts.puts)
	assert.Equal(t, 0, responses.count())
}

func TestSubmitUploadFailureLeavesNoRecord(t *testing.T) {
	c, artifacts, responses, sessions, queue := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5, CompletedQuestions: 2})
	artifacts.putErr = fmt.Errorf("bucket unavailable")

	_, err := c.Submit(context.Background(), validParams(sessionID))

	var aerr *ArtifactError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 0, responses.count())
	assert.Equal(t, int32(2), sessions.completed(sessionID))
	assert.Empty(t, queue.orphans)
}

func TestSubmitRecordFailureEnqueuesOrphan(t *testing.T) {
	c, artifacts, responses, sessions, queue := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})
	responses.createErr = fmt.Errorf("insert rejected")

	_, err := c.Submit(context.Background(), validParams(sessionID))

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, int32(0), sessions.completed(sessionID))
	require.Len(t, queue.orphans, 1)
	require.Len(t, artifacts.puts, 1)
	assert.Equal(t, "recordings/"+artifacts.puts[0], queue.orphans[0])
}

func TestSubmitCounterFailureIsSwallowed(t *testing.T) {
	c, _, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})
	sessions.incErr = fmt.Errorf("deadlock")

	result, err := c.Submit(context.Background(), validParams(sessionID))
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 1, responses.count())
}

func TestSubmitBeyondTotalIsAccepted(t *testing.T) {
	c, _, _, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 1, CompletedQuestions: 1})

	_, err := c.Submit(context.Background(), validParams(sessionID))
	require.NoError(t, err)
	assert.Equal(t, int32(2), sessions.completed(sessionID))
}

func TestConcurrentSubmitsCountExactly(t *testing.T) {
	c, _, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 50})

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := c.Submit(context.Background(), validParams(sessionID))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(n), sessions.completed(sessionID))
	assert.Equal(t, n, responses.count())
}

func submitOne(t *testing.T, c *Coordinator, sessionID uuid.UUID) database.Response {
	t.Helper()
	result, err := c.Submit(context.Background(), validParams(sessionID))
	require.NoError(t, err)
	return result.Response
}

func TestDeleteRemovesRecordBlobAndDecrementsCounter(t *testing.T) {
	c, artifacts, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})
	created := submitOne(t, c, sessionID)

	err := c.Delete(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, responses.count())
	require.Len(t, artifacts.deletes, 1)
	assert.Equal(t, "recordings/"+artifacts.puts[0], artifacts.deletes[0])
	assert.Equal(t, int32(0), sessions.completed(sessionID))
}

func TestDeleteToleratesArtifactFailure(t *testing.T) {
	c, artifacts, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})
	created := submitOne(t, c, sessionID)
	artifacts.deleteErr = fmt.Errorf("object not found")

	err := c.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, responses.count())
}

func TestDeleteMissingResponse(t *testing.T) {
	c, _, _, _, _ := newTestCoordinator()
	err := c.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecordFailureSurfaced(t *testing.T) {
	c, _, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})
	created := submitOne(t, c, sessionID)
	responses.deleteErr = fmt.Errorf("connection reset")

	err := c.Delete(context.Background(), created.ID)
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, responses.count())
}

func TestDeleteWithSessionGone(t *testing.T) {
	c, _, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})
	created := submitOne(t, c, sessionID)

	// session removed independently of its responses
	sessions.mu.Lock()
	delete(sessions.sessions, sessionID)
	sessions.mu.Unlock()

	err := c.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, responses.count())
}

func TestDeleteCounterFlooredAtZero(t *testing.T) {
	c, _, _, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})
	created := submitOne(t, c, sessionID)

	// counter already at zero before the delete lands
	_, err := sessions.SetCompletedQuestions(context.Background(), database.SetCompletedQuestionsParams{
		CompletedQuestions: 0,
		ID:                 sessionID,
	})
	require.NoError(t, err)

	require.NoError(t, c.Delete(context.Background(), created.ID))
	assert.Equal(t, int32(0), sessions.completed(sessionID))
}

func TestDeleteSkipsBlobWhenURLUnparseable(t *testing.T) {
	c, artifacts, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})

	record, err := responses.CreateResponse(context.Background(), database.CreateResponseParams{
		ID:         uuid.New(),
		SessionID:  uuid.NullUUID{UUID: sessionID, Valid: true},
		QuestionID: uuid.New(),
		VideoUrl:   sql.NullString{String: "https://cdn.test/not-a-public-ref", Valid: true},
	})
	require.NoError(t, err)

	require.NoError(t, c.Delete(context.Background(), record.ID))
	assert.Empty(t, artifacts.deletes)
	assert.Equal(t, 0, responses.count())
}

func TestDeleteDecrementFailureIsSwallowed(t *testing.T) {
	c, _, responses, sessions, _ := newTestCoordinator()
	sessionID := uuid.New()
	sessions.add(database.InterviewSession{ID: sessionID, TotalQuestions: 5})
	created := submitOne(t, c, sessionID)
	sessions.setErr = fmt.Errorf("write timeout")

	err := c.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, responses.count())
	assert.Equal(t, int32(1), sessions.completed(sessionID))
}
