package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	testlog "github.com/dannielcanaryquipia/capstone-project2-sub000/internal/testutil"
)

type fakeDispatcher struct {
	calls int
	errs  []error
}

func (f *fakeDispatcher) Send(ctx context.Context, n Notification) error {
	f.calls++
	if f.calls <= len(f.errs) {
		return f.errs[f.calls-1]
	}
	return nil
}

type fakeCounter struct{ n int }

func (c *fakeCounter) Inc() { c.n++ }

func testCfg() RetryConfig {
	return RetryConfig{Delays: []time.Duration{time.Millisecond, time.Millisecond}}
}

func TestRetryingDispatcher_SucceedsFirstTry(t *testing.T) {
	t.Parallel()

	next := &fakeDispatcher{}
	ctr := &fakeCounter{}
	d := NewRetryingDispatcher(next, testlog.New().Logger(), ctr, testCfg())

	err := d.Send(context.Background(), Notification{UserID: "u1", Kind: KindOrderUpdate})
	require.NoError(t, err)
	require.Equal(t, 1, next.calls)
	require.Equal(t, 0, ctr.n)
}

func TestRetryingDispatcher_RecoversAfterRetry(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	next := &fakeDispatcher{errs: []error{boom}}
	ctr := &fakeCounter{}
	rec := testlog.New()
	d := NewRetryingDispatcher(next, rec.Logger(), ctr, testCfg())

	err := d.Send(context.Background(), Notification{UserID: "u1", Kind: KindDelivery})
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
	require.Equal(t, 1, ctr.n)
	require.Equal(t, 1, rec.Count("notification retry"))
}

func TestRetryingDispatcher_GivesUpAfterLadder(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	next := &fakeDispatcher{errs: []error{boom, boom, boom, boom}}
	ctr := &fakeCounter{}
	d := NewRetryingDispatcher(next, testlog.New().Logger(), ctr, testCfg())

	err := d.Send(context.Background(), Notification{UserID: "u1", Kind: KindPayment})
	require.ErrorIs(t, err, boom)
	// initial attempt + one per ladder step
	require.Equal(t, 3, next.calls)
	require.Equal(t, 2, ctr.n)
}

func TestRetryingDispatcher_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	next := &fakeDispatcher{errs: []error{boom, boom, boom}}
	d := NewRetryingDispatcher(next, testlog.New().Logger(), nil, testCfg())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Send(ctx, Notification{UserID: "u1"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, next.calls)
}

func TestNewRetryingDispatcher_NilNext(t *testing.T) {
	t.Parallel()
	require.Nil(t, NewRetryingDispatcher(nil, testlog.New().Logger(), nil, testCfg()))
}
