package lib

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTaskStop(t *testing.T) {
	task := NewTaskFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, "blocking", NewTestLogger())

	task.Start(context.Background())

	select {
	case <-task.Stop():
	case <-time.After(time.Second):
		t.Fatal("task did not stop")
	}

	select {
	case <-task.Done():
		t.Fatal("done should not be closed on Stop")
	default:
	}
}

func TestTaskInternalError(t *testing.T) {
	errTest := errors.New("boom")
	task := NewTaskFunc(func(ctx context.Context) error {
		return errTest
	}, "failing", NewTestLogger())

	task.Start(context.Background())

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not finish")
	}
	require.ErrorIs(t, task.Err(), errTest)
}

func TestTaskParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := NewTaskFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, "blocking", NewTestLogger())

	task.Start(ctx)
	cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not finish")
	}
	require.ErrorIs(t, task.Err(), context.Canceled)
}
