// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
)

/*
TestLocalLocker_SerialisesSameKey checks that holders of one key never overlap.
*/
func TestLocalLocker_SerialisesSameKey(t *testing.T) {
	locker := NewLocalLocker(5 * time.Second)

	var active, maxActive int32
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Acquire(context.Background(), "item-1")
			require.NoError(t, err)
			defer unlock()

			current := atomic.AddInt32(&active, 1)
			for {
				seen := atomic.LoadInt32(&maxActive)
				if current <= seen || atomic.CompareAndSwapInt32(&maxActive, seen, current) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
	assert.Zero(t, locker.size(), "idle keys must be released")
}

/*
TestLocalLocker_IndependentKeys verifies distinct keys do not block each other.
*/
func TestLocalLocker_IndependentKeys(t *testing.T) {
	locker := NewLocalLocker(50 * time.Millisecond)

	unlockA, err := locker.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Acquire(context.Background(), "b")
	require.NoError(t, err)
	unlockB()
}

/*
TestLocalLocker_BusyTimesOut expects a CONFLICT once the wait budget is spent.
*/
func TestLocalLocker_BusyTimesOut(t *testing.T) {
	locker := NewLocalLocker(20 * time.Millisecond)

	unlock, err := locker.Acquire(context.Background(), "item-1")
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background(), "item-1")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
	assert.Equal(t, "item-1", apperr.As(err).Key)

	// Double unlock is harmless.
	unlock()
	unlock()

	unlock, err = locker.Acquire(context.Background(), "item-1")
	require.NoError(t, err)
	unlock()
	assert.Zero(t, locker.size())
}

/*
TestLocalLocker_ContextCancelled returns the context error while waiting.
*/
func TestLocalLocker_ContextCancelled(t *testing.T) {
	locker := NewLocalLocker(time.Second)

	unlock, err := locker.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = locker.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
