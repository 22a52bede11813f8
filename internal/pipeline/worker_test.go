package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func drain(t *testing.T, ch <-chan Status) []Status {
	t.Helper()
	var got []Status
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, s)
		case <-timeout:
			t.Fatal("status channel not closed")
			return got
		}
	}
}

func TestWorker_SingleJobAtATime(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w := NewWorker()
	release := make(chan struct{})
	started := make(chan struct{})

	ch, err := w.submit(context.Background(), func(ctx context.Context, notify notifyFunc) (*Result, error) {
		notify.send(PhaseProbe, -1, "probing")
		close(started)
		<-release
		notify.send(PhaseEncode, 50, "half")
		return &Result{OutputPath: "out.mp4"}, nil
	})
	require.NoError(t, err)
	<-started

	assert.True(t, w.Busy())
	_, err = w.submit(context.Background(), func(context.Context, notifyFunc) (*Result, error) {
		t.Error("second job must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	statuses := drain(t, ch)
	res, err := w.Wait()
	require.NoError(t, err)
	assert.Equal(t, "out.mp4", res.OutputPath)
	assert.False(t, w.Busy())

	require.Len(t, statuses, 2)
	assert.Equal(t, PhaseProbe, statuses[0].Phase)
	assert.Equal(t, Status{Phase: PhaseEncode, Message: "half", Progress: 50}, statuses[1])

	// Idle again: a new job is accepted.
	ch, err = w.submit(context.Background(), func(context.Context, notifyFunc) (*Result, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, err)
	drain(t, ch)
	_, err = w.Wait()
	assert.EqualError(t, err, "boom")
	w.Close()
}

func TestWorker_Cancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w := NewWorker()
	ch, err := w.submit(context.Background(), func(ctx context.Context, _ notifyFunc) (*Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.NoError(t, err)

	w.Cancel()
	drain(t, ch)
	_, err = w.Wait()
	assert.ErrorIs(t, err, context.Canceled)
	w.Close()
}

func TestWorker_CloseStopsRunningJob(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w := NewWorker()
	_, err := w.submit(context.Background(), func(ctx context.Context, _ notifyFunc) (*Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.NoError(t, err)
	w.Close()

	_, err = w.submit(context.Background(), func(context.Context, notifyFunc) (*Result, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWorker_SlowReaderDropsUpdates(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w := NewWorker()
	ch, err := w.submit(context.Background(), func(_ context.Context, notify notifyFunc) (*Result, error) {
		for i := 0; i < statusBuffer*4; i++ {
			notify.send(PhaseEncode, float64(i), "tick")
		}
		return &Result{}, nil
	})
	require.NoError(t, err)

	_, err = w.Wait()
	require.NoError(t, err)
	assert.Len(t, drain(t, ch), statusBuffer)
	w.Close()
}

func TestWorker_WaitWithoutJob(t *testing.T) {
	_, err := NewWorker().Wait()
	assert.ErrorIs(t, err, ErrNoJob)
}
