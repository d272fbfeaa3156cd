// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker is a keyed mutex living in process memory.
//
// Each key owns a one-slot channel; entries are dropped once nobody holds or
// waits for them, so the map does not grow with the catalog.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker creates a [LocalLocker] that waits at most wait for a busy key.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot), wait: wait}
}

// Acquire implements [Locker].
func (locker *LocalLocker) Acquire(context context.Context, key string) (Unlock, error) {
	entry := locker.ref(key)

	timer := time.NewTimer(locker.wait)
	defer timer.Stop()

	select {
	case entry.ch <- struct{}{}:
	case <-timer.C:
		locker.unref(key)
		return nil, errBusy(key)
	case <-context.Done():
		locker.unref(key)
		return nil, context.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			locker.unref(key)
		})
	}, nil
}

func (locker *LocalLocker) ref(key string) *slot {
	locker.mu.Lock()
	defer locker.mu.Unlock()

	entry, ok := locker.slots[key]
	if !ok {
		entry = &slot{ch: make(chan struct{}, 1)}
		locker.slots[key] = entry
	}
	entry.refs++
	return entry
}

func (locker *LocalLocker) unref(key string) {
	locker.mu.Lock()
	defer locker.mu.Unlock()

	entry, ok := locker.slots[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(locker.slots, key)
	}
}

// size reports the number of tracked keys.
func (locker *LocalLocker) size() int {
	locker.mu.Lock()
	defer locker.mu.Unlock()
	return len(locker.slots)
}
