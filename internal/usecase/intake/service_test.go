package intake

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/johnquangdev/call-review/errors"
	"github.com/johnquangdev/call-review/internal/adapter/repository"
	"github.com/johnquangdev/call-review/internal/domain/entities"
	"github.com/johnquangdev/call-review/internal/infrastructure/cache"
	"github.com/johnquangdev/call-review/pkg/analysis"
)

type harness struct {
	svc     *Service
	repo    *repository.CallRepository
	notices *cache.NoticeBoard
	fake    *fakeAnalysis
	timers  *timerLog
	logs    *observer.ObservedLogs
}

func newHarness(t *testing.T, fake *fakeAnalysis, opts ...Option) *harness {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	repo := repository.NewCallRepository()
	notices := cache.NewNoticeBoard(time.Minute)
	t.Cleanup(notices.Close)

	timers := &timerLog{}
	opts = append([]Option{WithTimerFactory(timers.instant())}, opts...)
	svc := NewService(testConfig(), repo, fake, notices, zap.New(core), opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		svc.Shutdown(ctx)
	})

	return &harness{svc: svc, repo: repo, notices: notices, fake: fake, timers: timers, logs: logs}
}

func (h *harness) placeholder(t *testing.T, title string) *entities.CallRecord {
	t.Helper()
	p := entities.NewPlaceholder("tmp-"+title, h.svc.seq.Add(1), title, time.Now())
	require.NoError(t, h.repo.InsertPlaceholder(context.Background(), p))
	return p
}

func mp3(name string, size int) Upload {
	return Upload{
		Filename:    name,
		ContentType: "audio/mpeg",
		Size:        int64(size),
		Body:        bytes.NewReader(make([]byte, size)),
	}
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	return appErr.Code
}

func TestSubmit_AcceptsAndCreatesPlaceholder(t *testing.T) {
	fake := &fakeAnalysis{
		callID:  "call-xyz",
		gate:    make(chan struct{}),
		results: []fakeResult{completed(analysis.ResultResponse{})},
	}
	h := newHarness(t, fake)

	placeholder, err := h.svc.Submit(context.Background(), mp3("call1.mp3", 9*mib))
	require.NoError(t, err)
	assert.Equal(t, entities.CallStatusProcessing, placeholder.Status)
	assert.Equal(t, "call1.mp3", placeholder.Title)
	assert.NotEmpty(t, placeholder.ID)

	snap := h.repo.Snapshot(context.Background())
	require.Len(t, snap, 1)
	assert.Equal(t, placeholder.ID, snap[0].ID)
	assert.Equal(t, entities.CallStatusProcessing, snap[0].Status)

	close(fake.gate)
	h.svc.Wait()

	snap = h.repo.Snapshot(context.Background())
	require.Len(t, snap, 1)
	assert.Equal(t, "call-xyz", snap[0].ID)
	assert.Equal(t, entities.CallStatusCompleted, snap[0].Status)
	assert.Equal(t, placeholder.Seq, snap[0].Seq)
	assert.Equal(t, 9*mib, fake.bytes)
}

func TestSubmit_RejectsUnsupportedFormat(t *testing.T) {
	fake := &fakeAnalysis{}
	h := newHarness(t, fake)

	_, err := h.svc.Submit(context.Background(), Upload{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Size:        5,
		Body:        bytes.NewReader([]byte("hello")),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorCode_UNSUPPORTED_FORMAT, appCode(t, err))
	assert.Contains(t, err.Error(), "Unsupported format")

	h.svc.Wait()
	assert.Empty(t, h.repo.Snapshot(context.Background()))
	assert.Zero(t, fake.analyzeCount())
}

func TestSubmit_RejectsOversizedBody(t *testing.T) {
	fake := &fakeAnalysis{}
	h := newHarness(t, fake)

	// Size header understates the body
	u := mp3("big.mp3", 10*mib+1)
	u.Size = 100

	_, err := h.svc.Submit(context.Background(), u)
	assert.Equal(t, apperrors.ErrorCode_FILE_TOO_LARGE, appCode(t, err))
	assert.Empty(t, h.repo.Snapshot(context.Background()))
}

func TestSubmit_ConcurrentJobsAreIndependent(t *testing.T) {
	fake := &fakeAnalysis{results: []fakeResult{completed(analysis.ResultResponse{})}}
	h := newHarness(t, fake)

	const n = 5
	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := h.svc.Submit(context.Background(), mp3(fmt.Sprintf("c%d.mp3", i), 10))
			if assert.NoError(t, err) {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()
	h.svc.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "placeholder ids must be unique")
		seen[id] = true
	}

	snap := h.repo.Snapshot(context.Background())
	require.Len(t, snap, n)
	for _, c := range snap {
		assert.Equal(t, entities.CallStatusCompleted, c.Status)
	}
}

func TestProcess_NormalizesAndReplacesInPlace(t *testing.T) {
	fake := &fakeAnalysis{
		callID: "call-42",
		results: []fakeResult{
			processing(),
			processing(),
			completed(analysis.ResultResponse{
				RuleBased: &analysis.RuleBased{
					Intent:    &analysis.IntentResult{Label: "Loan"},
					Priority:  "High",
					Sentiment: &analysis.SentimentResult{Label: "Negative"},
				},
			}),
		},
	}
	h := newHarness(t, fake)

	first := h.placeholder(t, "first.mp3")
	_ = h.placeholder(t, "second.mp3")

	require.NoError(t, h.svc.Process(context.Background(), first, mp3("first.mp3", 10)))

	snap := h.repo.Snapshot(context.Background())
	require.Len(t, snap, 2)
	assert.Equal(t, "tmp-second.mp3", snap[0].ID)

	rec := snap[1]
	assert.Equal(t, "call-42", rec.ID)
	assert.Equal(t, "first.mp3", rec.Title)
	assert.Equal(t, "Loan", rec.Intent.Label)
	assert.Equal(t, entities.PriorityHigh, rec.Priority)
	assert.Equal(t, entities.RiskHigh, rec.RiskLevel)
	assert.Equal(t, []entities.ActionItem{
		{Task: "Process loan inquiry for Customer"},
		{Task: "Escalate to senior banker — high priority case"},
	}, rec.ActionItems)
	assert.Equal(t, 3, fake.pollCount())

	var states []string
	for _, entry := range h.logs.FilterMessage("🔄 Call job state changed").All() {
		states = append(states, entry.ContextMap()["state"].(string))
	}
	assert.Equal(t, []string{"submitting", "polling", "completed"}, states)
	assert.Empty(t, h.notices.Recent())
}

func TestProcess_TimeoutRollsBack(t *testing.T) {
	fake := &fakeAnalysis{callID: "call-slow"}
	h := newHarness(t, fake)
	p := h.placeholder(t, "slow.wav")

	err := h.svc.Process(context.Background(), p, mp3("slow.wav", 10))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorCode_ANALYSIS_TIMEOUT, appCode(t, err))
	assert.Contains(t, err.Error(), "Processing timed out")

	assert.Equal(t, 30, fake.pollCount())
	assert.Equal(t, 29, h.timers.count())
	for _, w := range h.timers.waits {
		assert.Equal(t, 2*time.Second, w)
	}

	assert.Empty(t, h.repo.Snapshot(context.Background()))
	notices := h.notices.Recent()
	require.Len(t, notices, 1)
	assert.Equal(t, p.ID, notices[0].TempID)
	assert.Equal(t, "ANALYSIS_TIMEOUT", notices[0].Code)
	assert.Equal(t, "Processing timed out", notices[0].Message)
}

func TestProcess_AnalyzeFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode apperrors.ErrorCode
		wantMsg  string
	}{
		{
			"unauthorized",
			&analysis.StatusError{Op: "analyze", StatusCode: http.StatusUnauthorized, Detail: "Invalid API key"},
			apperrors.ErrorCode_ANALYSIS_UNAUTHORIZED,
			"Analysis service rejected the API key",
		},
		{
			"rate limited",
			&analysis.StatusError{Op: "analyze", StatusCode: http.StatusTooManyRequests},
			apperrors.ErrorCode_ANALYSIS_RATE_LIMITED,
			"Analysis service rate limit reached, try again later",
		},
		{
			"server error",
			&analysis.StatusError{Op: "analyze", StatusCode: http.StatusInternalServerError, Detail: "boom"},
			apperrors.ErrorCode_ANALYSIS_SUBMISSION_FAILED,
			"Analyze failed: boom",
		},
		{
			"transport",
			&analysis.TransportError{Op: "analyze", Err: stdErrors.New("connection refused")},
			apperrors.ErrorCode_ANALYSIS_TRANSPORT,
			"Could not reach the analysis service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAnalysis{analyzeErr: tt.err}
			h := newHarness(t, fake)
			p := h.placeholder(t, "a.mp3")

			err := h.svc.Process(context.Background(), p, mp3("a.mp3", 10))
			assert.Equal(t, tt.wantCode, appCode(t, err))

			assert.Zero(t, fake.pollCount(), "polling never starts after a failed submission")
			assert.Empty(t, h.repo.Snapshot(context.Background()))
			notices := h.notices.Recent()
			require.Len(t, notices, 1)
			assert.Equal(t, tt.wantMsg, notices[0].Message)
		})
	}
}

func TestProcess_PollTransportFailureRollsBack(t *testing.T) {
	fake := &fakeAnalysis{
		callID: "call-1",
		results: []fakeResult{
			processing(),
			{err: &analysis.TransportError{Op: "result", Err: stdErrors.New("connection reset")}},
		},
	}
	h := newHarness(t, fake)
	p := h.placeholder(t, "a.mp3")

	err := h.svc.Process(context.Background(), p, mp3("a.mp3", 10))
	assert.Equal(t, apperrors.ErrorCode_ANALYSIS_TRANSPORT, appCode(t, err))
	assert.Equal(t, 2, fake.pollCount())
	assert.Empty(t, h.repo.Snapshot(context.Background()))
}

func TestProcess_ReplaceFailureRollsBack(t *testing.T) {
	fake := &fakeAnalysis{
		callID:  "call-1",
		results: []fakeResult{{res: &analysis.ResultResponse{Status: analysis.StatusCompleted, CallID: "x"}}},
	}
	h := newHarness(t, fake)
	p := h.placeholder(t, "a.mp3")

	// The placeholder vanished underneath the job
	require.NoError(t, h.repo.Remove(context.Background(), p.ID))
	err := h.svc.Process(context.Background(), p, mp3("a.mp3", 10))
	assert.Equal(t, apperrors.ErrorCode_INTERNAL, appCode(t, err))
	assert.Len(t, h.notices.Recent(), 1)
}

func TestShutdown_CancelsInFlightJobs(t *testing.T) {
	fake := &fakeAnalysis{callID: "call-1"}
	h := newHarness(t, fake, WithTimerFactory(newStuckTimer))

	_, err := h.svc.Submit(context.Background(), mp3("a.mp3", 10))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return fake.pollCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.svc.Shutdown(ctx))

	assert.Empty(t, h.repo.Snapshot(context.Background()))
	notices := h.notices.Recent()
	require.Len(t, notices, 1)
	assert.Equal(t, "ANALYSIS_CANCELLED", notices[0].Code)

	_, err = h.svc.Submit(context.Background(), mp3("b.mp3", 10))
	assert.Equal(t, apperrors.ErrorCode_ANALYSIS_CANCELLED, appCode(t, err))
}

func TestProcess_SlowAnalyzeIsNotCutShort(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			// transcription runs inside the request, well past the whole poll window
			time.Sleep(250 * time.Millisecond)
			w.Write([]byte(`{"call_id":"call-slow"}`))
		default:
			w.Write([]byte(`{"status":"completed","call_id":"call-slow","rule_based":{"priority":"Low"}}`))
		}
	}))
	t.Cleanup(ts.Close)

	cfg := testConfig()
	cfg.Analysis.BaseURL = ts.URL
	cfg.Analysis.PollInterval = 10 * time.Millisecond
	cfg.Analysis.MaxPollAttempts = 3

	repo := repository.NewCallRepository()
	notices := cache.NewNoticeBoard(time.Minute)
	t.Cleanup(notices.Close)
	svc := NewService(cfg, repo, analysis.NewClient(&cfg.Analysis, nil), notices, nil)

	placeholder, err := svc.Submit(context.Background(), mp3("long.mp3", 10))
	require.NoError(t, err)
	svc.Wait()

	_, err = repo.FindByID(context.Background(), placeholder.ID)
	assert.ErrorIs(t, err, entities.ErrCallNotFound)

	rec, err := repo.FindByID(context.Background(), "call-slow")
	require.NoError(t, err)
	assert.Equal(t, entities.CallStatusCompleted, rec.Status)
	assert.Equal(t, entities.PriorityLow, rec.Priority)
	assert.Empty(t, notices.Recent())
}
