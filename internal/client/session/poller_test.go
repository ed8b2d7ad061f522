package session

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dvolkovs/fileshare/internal/client/models"
	"github.com/dvolkovs/fileshare/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (f *fakePasshare) getCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetCalls
}

// endAfter makes GetSession report the session inactive starting with call n.
type endingPasshare struct {
	fakePasshare
	endAfter int
}

func (f *endingPasshare) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	f.mu.Lock()
	f.GetCalls++
	n := f.GetCalls
	f.mu.Unlock()

	s := &models.Session{ID: id, Code: "AB12CD34", CreatorID: 1, Active: n < f.endAfter}
	return s, nil
}

func waitDone(t *testing.T, p *Poller) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop in time")
	}
}

func TestPoller_InitialRefreshRunsImmediately(t *testing.T) {
	fp := &fakePasshare{GetRet: activeSession(1, 1)}
	svc := NewService(fp, &fakeIdentity{})
	p := NewPoller(svc, time.Hour, discardLogger())

	p.Start(context.Background(), 1)
	defer p.Stop()

	require.Eventually(t, func() bool { return fp.getCalls() == 1 },
		time.Second, 2*time.Millisecond)
}

func TestPoller_StopsAfterObservingTerminalState(t *testing.T) {
	fp := &endingPasshare{endAfter: 3}
	svc := NewService(fp, &fakeIdentity{})

	var endedCalls atomic.Int32
	p := NewPoller(svc, 5*time.Millisecond, discardLogger())
	p.OnEnded(func() { endedCalls.Add(1) })

	p.Start(context.Background(), 1)
	waitDone(t, p)

	require.True(t, svc.Ended())
	require.Equal(t, int32(1), endedCalls.Load())

	// Let any in-flight cycle drain, then confirm polling has ceased.
	time.Sleep(20 * time.Millisecond)
	calls := fp.getCalls()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, calls, fp.getCalls(), "no network calls after terminal state")
}

func TestPoller_TerminalStateOnInitialRefreshSkipsTicking(t *testing.T) {
	fp := &endingPasshare{endAfter: 1} // inactive from the very first poll
	svc := NewService(fp, &fakeIdentity{})

	p := NewPoller(svc, 5*time.Millisecond, discardLogger())
	p.Start(context.Background(), 1)
	waitDone(t, p)

	require.Equal(t, 1, fp.getCalls())
}

func TestPoller_FailedPollKeepsTicking(t *testing.T) {
	fp := &fakePasshare{GetErr: context.DeadlineExceeded, FilesErr: context.DeadlineExceeded}
	svc := NewService(fp, &fakeIdentity{})

	p := NewPoller(svc, 5*time.Millisecond, discardLogger())
	p.Start(context.Background(), 1)
	defer p.Stop()

	require.Eventually(t, func() bool { return fp.getCalls() >= 3 },
		time.Second, 2*time.Millisecond, "failed polls must not stop the timer")
}

func TestPoller_StopHaltsPolling(t *testing.T) {
	fp := &fakePasshare{GetRet: activeSession(1, 1)}
	svc := NewService(fp, &fakeIdentity{})

	p := NewPoller(svc, 5*time.Millisecond, discardLogger())
	p.Start(context.Background(), 1)

	require.Eventually(t, func() bool { return fp.getCalls() >= 2 },
		time.Second, 2*time.Millisecond)

	p.Stop()
	p.Stop() // idempotent
	waitDone(t, p)

	time.Sleep(20 * time.Millisecond)
	calls := fp.getCalls()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, calls, fp.getCalls())
}

func TestPoller_ContextCancelHaltsPolling(t *testing.T) {
	fp := &fakePasshare{GetRet: activeSession(1, 1)}
	svc := NewService(fp, &fakeIdentity{})

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(svc, 5*time.Millisecond, discardLogger())
	p.Start(ctx, 1)

	require.Eventually(t, func() bool { return fp.getCalls() >= 1 },
		time.Second, 2*time.Millisecond)

	cancel()
	waitDone(t, p)
}
