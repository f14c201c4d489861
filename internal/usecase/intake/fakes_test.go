package intake

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/call-review/pkg/analysis"
	"github.com/johnquangdev/call-review/pkg/config"
)

// fakeAnalysis is a scripted analysis service
type fakeAnalysis struct {
	mu sync.Mutex

	callID     string
	analyzeErr error
	gate       chan struct{}

	// results are served in order; the last one repeats
	results  []fakeResult
	analyzed []string
	bytes    int
	polled   int
}

type fakeResult struct {
	res *analysis.ResultResponse
	err error
}

func (f *fakeAnalysis) Analyze(ctx context.Context, file analysis.File) (string, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", &analysis.TransportError{Op: "analyze", Err: ctx.Err()}
		}
	}
	body, _ := io.ReadAll(file.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzed = append(f.analyzed, file.Name)
	f.bytes += len(body)
	if f.analyzeErr != nil {
		return "", f.analyzeErr
	}
	if f.callID != "" {
		return f.callID, nil
	}
	return fmt.Sprintf("call-%d", len(f.analyzed)), nil
}

func (f *fakeAnalysis) GetResult(ctx context.Context, callID string) (*analysis.ResultResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.polled
	f.polled++
	if len(f.results) == 0 {
		return &analysis.ResultResponse{Status: analysis.StatusProcessing}, nil
	}
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	r := f.results[idx]
	return r.res, r.err
}

func (f *fakeAnalysis) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polled
}

func (f *fakeAnalysis) analyzeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.analyzed)
}

// timerLog records every wait requested by the poll loop
type timerLog struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (l *timerLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waits)
}

// instant returns a timer factory whose timers fire immediately
func (l *timerLog) instant() func() backoff.Timer {
	return func() backoff.Timer {
		return &instantTimer{log: l, c: make(chan time.Time, 1)}
	}
}

type instantTimer struct {
	log *timerLog
	c   chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.log.mu.Lock()
	t.log.waits = append(t.log.waits, d)
	t.log.mu.Unlock()
	t.c <- time.Time{}
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

// stuckTimer never fires
type stuckTimer struct{ c chan time.Time }

func newStuckTimer() backoff.Timer { return &stuckTimer{c: make(chan time.Time)} }

func (t *stuckTimer) Start(time.Duration) {}

func (t *stuckTimer) Stop() {}

func (t *stuckTimer) C() <-chan time.Time { return t.c }

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			BaseURL:         "http://analysis.test",
			PollInterval:    2 * time.Second,
			MaxPollAttempts: 30,
		},
		Upload:  config.UploadConfig{MaxFileSizeMB: 10},
		Notices: config.NoticeConfig{TTL: time.Minute},
	}
}

func completed(raw analysis.ResultResponse) fakeResult {
	raw.Status = analysis.StatusCompleted
	return fakeResult{res: &raw}
}

func processing() fakeResult {
	return fakeResult{res: &analysis.ResultResponse{Status: analysis.StatusProcessing}}
}

func strPtr(s string) *string { return &s }
