package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rgummadi/vidscribe/internal/store"
	"github.com/rgummadi/vidscribe/pkg/models"
)

// --- mocks ---

type mockStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*models.Job
}

func newMockStore() *mockStore {
	return &mockStore{jobs: make(map[uuid.UUID]*models.Job)}
}

func (s *mockStore) Ping(_ context.Context) error { return nil }

func (s *mockStore) CreateJob(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *mockStore) GetJob(_ context.Context, id uuid.UUID) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (s *mockStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status string, opts ...store.JobUpdateOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return store.ErrNotFound
	}
	job.Status = status
	u := store.ResolveJobUpdate(opts...)
	if u.Transcription != nil {
		job.Transcription = *u.Transcription
	}
	if u.Summary != nil {
		job.Summary = *u.Summary
	}
	if u.Questions != nil {
		job.Questions = u.Questions
	}
	if u.ErrorMessage != nil {
		job.ErrorMessage = u.ErrorMessage
	}
	if u.CompletedAt != nil {
		job.CompletedAt = u.CompletedAt
	}
	return nil
}

func (s *mockStore) CreateEvaluations(_ context.Context, _ []*models.Evaluation) error { return nil }
func (s *mockStore) ListEvaluations(_ context.Context, _ uuid.UUID) ([]*models.Evaluation, error) {
	return nil, nil
}

type mockCache struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]string
}

func newMockCache() *mockCache {
	return &mockCache{statuses: make(map[uuid.UUID]string)}
}

func (c *mockCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (c *mockCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (c *mockCache) Delete(_ context.Context, _ string) error                         { return nil }
func (c *mockCache) Ping(_ context.Context) error                                     { return nil }
func (c *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, nil
}

func (c *mockCache) SetJobStatus(_ context.Context, jobID uuid.UUID, status string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[jobID] = status
	return nil
}

func (c *mockCache) GetJobStatus(_ context.Context, jobID uuid.UUID) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.statuses[jobID]
	return s, ok, nil
}

type mockTranscriber struct {
	text  string
	err   error
	delay time.Duration
}

func (m *mockTranscriber) TranscribeURL(ctx context.Context, _ string) (string, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.text, m.err
}

type mockSummarizer struct {
	summary      string
	summaryErr   error
	questions    []models.Question
	questionsErr error
}

func (m *mockSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return m.summary, m.summaryErr
}

func (m *mockSummarizer) GenerateQuestions(_ context.Context, _ string) ([]models.Question, error) {
	return m.questions, m.questionsErr
}

// --- helpers ---

func newTestOrchestrator(st store.Store, ca *mockCache, tr Transcriber, su Summarizer) *Orchestrator {
	return NewOrchestrator(st, ca, tr, su, 5*time.Second)
}

func happySummarizer() *mockSummarizer {
	return &mockSummarizer{
		summary: "a concise summary",
		questions: []models.Question{
			{Question: "What is discussed?", Answer: "A topic"},
		},
	}
}

// --- Submit tests ---

func TestSubmit_ReturnsImmediately(t *testing.T) {
	st := newMockStore()
	tr := &mockTranscriber{text: "transcript", delay: 200 * time.Millisecond}
	o := newTestOrchestrator(st, newMockCache(), tr, happySummarizer())

	start := time.Now()
	job, err := o.Submit(context.Background(), "https://example.com/v.mp4")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job == nil {
		t.Fatal("expected job, got nil")
	}
	if job.Status != models.JobStatusTranscribing {
		t.Errorf("expected status transcribing, got %s", job.Status)
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("Submit should return immediately, took %v", elapsed)
	}

	// The job must be visible via GetStatus right away.
	got, err := o.GetStatus(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.JobStatusTranscribing {
		t.Errorf("expected stored status transcribing, got %s", got.Status)
	}

	o.Wait()
}

func TestSubmit_InvalidURL(t *testing.T) {
	st := newMockStore()
	o := newTestOrchestrator(st, newMockCache(), &mockTranscriber{}, happySummarizer())

	for _, raw := range []string{"", "not a url", "example.com/v.mp4", "ftp://example.com/v.mp4"} {
		_, err := o.Submit(context.Background(), raw)
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Submit(%q): expected ErrInvalidURL, got %v", raw, err)
		}
	}

	// No job may be created for a rejected submission.
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.jobs) != 0 {
		t.Errorf("expected no jobs created, got %d", len(st.jobs))
	}
}

func TestRun_CompletesJob(t *testing.T) {
	st := newMockStore()
	ca := newMockCache()
	tr := &mockTranscriber{text: "the full transcript"}
	o := newTestOrchestrator(st, ca, tr, happySummarizer())

	job, err := o.Submit(context.Background(), "https://example.com/v.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.Wait()

	got, err := o.GetStatus(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.JobStatusCompleted {
		t.Fatalf("expected status completed, got %s (error: %v)", got.Status, got.ErrorMessage)
	}
	if got.Transcription != "the full transcript" {
		t.Errorf("expected transcription persisted, got %q", got.Transcription)
	}
	if got.Summary != "a concise summary" {
		t.Errorf("expected summary persisted, got %q", got.Summary)
	}
	if len(got.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(got.Questions))
	}
	if got.CompletedAt == nil {
		t.Error("expected completedAt set on completed job")
	}
	if got.ErrorMessage != nil {
		t.Errorf("expected no error on completed job, got %q", *got.ErrorMessage)
	}

	status, ok, _ := ca.GetJobStatus(context.Background(), job.ID)
	if !ok || status != models.JobStatusCompleted {
		t.Errorf("expected cached status completed, got %q (found=%v)", status, ok)
	}
}

func TestRun_TranscriptionFailure(t *testing.T) {
	st := newMockStore()
	tr := &mockTranscriber{err: errors.New("provider exploded")}
	o := newTestOrchestrator(st, newMockCache(), tr, happySummarizer())

	job, err := o.Submit(context.Background(), "https://example.com/v.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.Wait()

	got, _ := o.GetStatus(context.Background(), job.ID)
	if got.Status != models.JobStatusFailed {
		t.Fatalf("expected status failed, got %s", got.Status)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage == "" {
		t.Error("expected non-empty error message on failed job")
	}
	if got.Transcription != "" {
		t.Errorf("expected empty transcription, got %q", got.Transcription)
	}
}

func TestRun_SummarizationFailure(t *testing.T) {
	st := newMockStore()
	tr := &mockTranscriber{text: "the transcript"}
	su := &mockSummarizer{summaryErr: errors.New("both providers failed")}
	o := newTestOrchestrator(st, newMockCache(), tr, su)

	job, err := o.Submit(context.Background(), "https://example.com/v.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.Wait()

	got, _ := o.GetStatus(context.Background(), job.ID)
	if got.Status != models.JobStatusFailed {
		t.Fatalf("expected status failed, got %s", got.Status)
	}
	// Transcription completed before the failure, so it stays persisted.
	if got.Transcription != "the transcript" {
		t.Errorf("expected transcription persisted, got %q", got.Transcription)
	}
	if got.Summary != "" {
		t.Errorf("expected empty summary, got %q", got.Summary)
	}
	if got.ErrorMessage == nil || *got.ErrorMessage == "" {
		t.Error("expected non-empty error message on failed job")
	}
}

func TestRun_QuestionGenerationFailure(t *testing.T) {
	st := newMockStore()
	tr := &mockTranscriber{text: "the transcript"}
	su := &mockSummarizer{summary: "a summary", questionsErr: errors.New("provider failed")}
	o := newTestOrchestrator(st, newMockCache(), tr, su)

	job, err := o.Submit(context.Background(), "https://example.com/v.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.Wait()

	got, _ := o.GetStatus(context.Background(), job.ID)
	if got.Status != models.JobStatusFailed {
		t.Fatalf("expected status failed, got %s", got.Status)
	}
	if got.Transcription == "" || got.Summary == "" {
		t.Error("expected transcription and summary persisted before the failure")
	}
	if len(got.Questions) != 0 {
		t.Errorf("expected no questions, got %d", len(got.Questions))
	}
}

func TestRun_FailureIsolatedPerJob(t *testing.T) {
	st := newMockStore()
	o := newTestOrchestrator(st, newMockCache(), &mockTranscriber{text: "ok"}, happySummarizer())
	failing := newTestOrchestrator(st, newMockCache(),
		&mockTranscriber{err: errors.New("boom")}, happySummarizer())

	good, err := o.Submit(context.Background(), "https://example.com/good.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad, err := failing.Submit(context.Background(), "https://example.com/bad.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.Wait()
	failing.Wait()

	goodJob, _ := st.GetJob(context.Background(), good.ID)
	badJob, _ := st.GetJob(context.Background(), bad.ID)
	if goodJob.Status != models.JobStatusCompleted {
		t.Errorf("expected good job completed, got %s", goodJob.Status)
	}
	if badJob.Status != models.JobStatusFailed {
		t.Errorf("expected bad job failed, got %s", badJob.Status)
	}
}

func TestGetStatus_UnknownJob(t *testing.T) {
	o := newTestOrchestrator(newMockStore(), newMockCache(), &mockTranscriber{}, happySummarizer())

	_, err := o.GetStatus(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetStatus_TerminalStateStable(t *testing.T) {
	st := newMockStore()
	o := newTestOrchestrator(st, newMockCache(), &mockTranscriber{text: "t"}, happySummarizer())

	job, err := o.Submit(context.Background(), "https://example.com/v.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.Wait()

	first, err := o.GetStatus(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 5 {
		again, err := o.GetStatus(context.Background(), job.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Status != first.Status || again.Summary != first.Summary ||
			again.Transcription != first.Transcription {
			t.Fatal("terminal job data changed between polls")
		}
	}
}
