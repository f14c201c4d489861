package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/call-review/errors"
	"github.com/johnquangdev/call-review/internal/domain/entities"
	"github.com/johnquangdev/call-review/internal/domain/repositories"
	"github.com/johnquangdev/call-review/internal/infrastructure/cache"
	"github.com/johnquangdev/call-review/pkg/analysis"
	"github.com/johnquangdev/call-review/pkg/config"
	"github.com/johnquangdev/call-review/pkg/jobcontext"
)

const jobType = "call_intake"

// JobState is the position of one submission in the intake state machine
type JobState string

const (
	StateSubmitting JobState = "submitting"
	StatePolling    JobState = "polling"
	StateCompleted  JobState = "completed"
	StateFailed     JobState = "failed"
)

// NoticePoster receives a user-visible notice for every rolled-back job
type NoticePoster interface {
	Post(n cache.Notice) cache.Notice
}

// Option customizes a Service
type Option func(*Service)

// WithTimerFactory replaces the timer used between polls
func WithTimerFactory(newTimer func() backoff.Timer) Option {
	return func(s *Service) { s.newTimer = newTimer }
}

// WithClock replaces the clock used for submission and completion timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.normalizer.now = now
	}
}

// Service owns the upload, poll and resolve pipeline for every submitted call
type Service struct {
	repo        repositories.CallRepository
	client      analysis.Service
	notices     NoticePoster
	normalizer  *Normalizer
	newTimer    func() backoff.Timer
	now         func() time.Time
	logger      *zap.Logger
	interval    time.Duration
	maxAttempts int
	maxFileSize int64

	seq atomic.Int64

	// jobs run on ctx, which outlives the request that submitted them
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewService creates the intake service
func NewService(
	cfg *config.Config,
	repo repositories.CallRepository,
	client analysis.Service,
	notices NoticePoster,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		repo:        repo,
		client:      client,
		notices:     notices,
		normalizer:  NewNormalizer(),
		now:         time.Now,
		logger:      logger,
		interval:    cfg.Analysis.PollInterval,
		maxAttempts: cfg.Analysis.MaxPollAttempts,
		maxFileSize: cfg.Upload.MaxFileSize(),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks an upload against the configured limits
func (s *Service) Validate(u Upload) error {
	return Validate(u, s.maxFileSize)
}

// Submit validates the upload, inserts a processing placeholder at the head of the
// call list and starts the job in the background. The placeholder is returned at once.
func (s *Service) Submit(ctx context.Context, upload Upload) (*entities.CallRecord, error) {
	if err := s.Validate(upload); err != nil {
		return nil, err
	}
	if upload.Body == nil {
		return nil, apperrors.ErrMissingFile()
	}

	// The request body is gone once the handler returns
	data, err := io.ReadAll(io.LimitReader(upload.Body, s.maxFileSize+1))
	if err != nil {
		return nil, apperrors.ErrInvalidArgument("Could not read uploaded file")
	}
	upload.Size = int64(len(data))
	if err := s.Validate(upload); err != nil {
		return nil, err
	}
	upload.Body = bytes.NewReader(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, apperrors.ErrAnalysisCancelled(errors.New("intake service is shutting down"))
	}

	placeholder := entities.NewPlaceholder(uuid.New().String(), s.seq.Add(1), upload.Filename, s.now())
	if err := s.repo.InsertPlaceholder(ctx, placeholder); err != nil {
		return nil, apperrors.ErrInternal(fmt.Errorf("insert placeholder: %w", err))
	}

	if s.logger != nil {
		s.logger.Info("📥 Call accepted",
			zap.String("temp_id", placeholder.ID),
			zap.String("filename", upload.Filename),
			zap.Int64("size", upload.Size),
		)
	}

	job := *placeholder
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.Process(s.ctx, &job, upload)
	}()

	return placeholder, nil
}

// Process runs one job synchronously: analyze, poll, normalize, replace.
// On any failure the placeholder is removed and a notice is posted.
func (s *Service) Process(ctx context.Context, placeholder *entities.CallRecord, upload Upload) error {
	jobCtx, cancel := jobcontext.JobBegin(ctx, placeholder.ID, jobType, placeholder.Title, 0)
	defer cancel()

	err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		return s.run(ctx, placeholder, upload)
	})
	if err == nil {
		return nil
	}

	appErr := s.classify(ctx, err)
	s.rollback(jobCtx, placeholder, appErr)
	return appErr
}

func (s *Service) run(ctx context.Context, placeholder *entities.CallRecord, upload Upload) error {
	s.transition(ctx, StateSubmitting)

	callID, err := s.client.Analyze(ctx, analysis.File{
		Name:        upload.Filename,
		ContentType: upload.ContentType,
		Body:        upload.Body,
	})
	if err != nil {
		return err
	}

	s.transition(ctx, StatePolling, zap.String("call_id", callID))

	poller := NewPoller(s.client, s.interval, s.maxAttempts, s.newTimer, s.logger)
	result, attempts, err := poller.Poll(ctx, callID)
	if err != nil {
		if IsTimeout(err) {
			return apperrors.ErrAnalysisTimeout(attempts).WithDetail("call_id", callID)
		}
		return err
	}

	record, err := s.normalizer.Normalize(callID, placeholder.Title, placeholder.Seq, placeholder.SubmittedAt, result)
	if err != nil {
		return apperrors.ErrAnalysisInvalidResult(err).WithDetail("call_id", callID)
	}

	if err := s.repo.Replace(ctx, placeholder.ID, record); err != nil {
		return apperrors.ErrInternal(fmt.Errorf("replace placeholder: %w", err))
	}

	s.transition(ctx, StateCompleted,
		zap.String("call_id", callID),
		zap.Int("attempts", attempts),
		zap.String("priority", string(record.Priority)),
		zap.String("risk_level", string(record.RiskLevel)),
	)
	return nil
}

// classify maps a job error onto the error taxonomy. parent is the context the job
// was started with; the poll ceiling is the only timeout a job has.
func (s *Service) classify(parent context.Context, err error) apperrors.AppError {
	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if parent.Err() != nil {
		return apperrors.ErrAnalysisCancelled(err)
	}

	if se, ok := analysis.AsStatusError(err); ok {
		switch {
		case se.Unauthorized():
			return apperrors.ErrAnalysisUnauthorized(err)
		case se.RateLimited():
			return apperrors.ErrAnalysisRateLimited(err)
		default:
			return apperrors.ErrSubmissionFailed(se.Detail, err)
		}
	}
	if analysis.IsTransportError(err) {
		return apperrors.ErrAnalysisTransport(err)
	}
	return apperrors.ErrInternal(err)
}

// rollback removes the placeholder so no entry stays stuck in processing
func (s *Service) rollback(ctx context.Context, placeholder *entities.CallRecord, appErr apperrors.AppError) {
	// The job context may already be cancelled; removal must still happen
	if err := s.repo.Remove(context.WithoutCancel(ctx), placeholder.ID); err != nil && !errors.Is(err, entities.ErrCallNotFound) {
		if s.logger != nil {
			s.logger.Error("❌ Failed to remove placeholder",
				zap.String("temp_id", placeholder.ID),
				zap.Error(err),
			)
		}
	}

	if s.notices != nil {
		s.notices.Post(cache.Notice{
			TempID:   placeholder.ID,
			Filename: placeholder.Title,
			Code:     appErr.Code.String(),
			Message:  appErr.Message,
		})
	}

	if s.logger != nil {
		fields := append(jobcontext.Fields(ctx),
			zap.String("state", string(StateFailed)),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(appErr),
		)
		s.logger.Error("❌ Call processing failed", fields...)
	}
}

func (s *Service) transition(ctx context.Context, state JobState, fields ...zap.Field) {
	if s.logger == nil {
		return
	}
	all := append(jobcontext.Fields(ctx), zap.String("state", string(state)))
	s.logger.Info("🔄 Call job state changed", append(all, fields...)...)
}

// Shutdown stops accepting submissions, cancels in-flight polls and waits for
// their rollback to finish or for ctx to expire.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every submitted job has finished
func (s *Service) Wait() {
	s.wg.Wait()
}
