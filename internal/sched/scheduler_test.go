package sched

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewDefaultsInterval(t *testing.T) {
	s := New(0, nil)
	assert.Equal(t, DefaultInterval, s.Every)

	s = New(5*time.Minute, zap.NewNop())
	assert.Equal(t, 5*time.Minute, s.Every)
}

func TestRunFiresImmediatelyThenOnInterval(t *testing.T) {
	s := New(20*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		s.Run(ctx, func(context.Context) error {
			if calls.Add(1) >= 3 {
				cancel()
			}
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestRunKeepsGoingAfterErrors(t *testing.T) {
	s := New(10*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		s.Run(ctx, func(context.Context) error {
			if calls.Add(1) >= 2 {
				cancel()
			}
			return errors.New("upstream unavailable")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler stopped retrying after an error")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}
