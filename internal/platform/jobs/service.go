package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	JobTokenCleanup = "verification_token_cleanup"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunStore records job executions.
type RunStore interface {
	StartRun(ctx context.Context, jobType string) (string, error)
	FinishRun(ctx context.Context, runID, status string, details []byte) error
}

type TokenCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

type Service struct {
	runs     RunStore
	cleaner  TokenCleaner
	interval time.Duration
	observe  func(job, status string)
	queue    chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(runs RunStore, cleaner TokenCleaner, cleanupInterval time.Duration) *Service {
	return &Service{
		runs:     runs,
		cleaner:  cleaner,
		interval: cleanupInterval,
		observe:  func(string, string) {},
		queue:    make(chan job, 128),
	}
}

// WithObserver reports every finished run, used for metrics.
func (s *Service) WithObserver(fn func(job, status string)) *Service {
	if fn != nil {
		s.observe = fn
	}
	return s
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.interval > 0 && s.cleaner != nil {
		go s.scheduleTokenCleanup(ctx, s.interval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID, err := s.runs.StartRun(ctx, j.Type)
	if err != nil {
		slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		details = map[string]any{"error": err.Error()}
	}
	s.observe(j.Type, status)

	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil || details == nil {
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.runs.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "runId", runID, "err", updErr)
		}
	}
	return details, err
}

func (s *Service) cleanupTokens(ctx context.Context) (any, error) {
	removed, err := s.cleaner.CleanupExpired(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("expired verification tokens removed", "count", removed)
	return map[string]any{"deleted": removed}, nil
}

func (s *Service) scheduleTokenCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobTokenCleanup, s.cleanupTokens)
		}
	}
}

// PgRunStore keeps job runs in the job_runs table.
type PgRunStore struct {
	DB *pgxpool.Pool
}

func NewPgRunStore(db *pgxpool.Pool) *PgRunStore {
	return &PgRunStore{DB: db}
}

func (p *PgRunStore) StartRun(ctx context.Context, jobType string) (string, error) {
	var runID string
	err := p.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id::text
  `, jobType, StatusRunning).Scan(&runID)
	return runID, err
}

func (p *PgRunStore) FinishRun(ctx context.Context, runID, status string, details []byte) error {
	_, err := p.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2::jsonb, completed_at = now()
    WHERE id::text = $3
  `, status, string(details), runID)
	return err
}
