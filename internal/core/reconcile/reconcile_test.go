// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reconcile_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/loopdex/internal/core/reconcile"
)

/*
TestDiff covers the set-difference table.
*/
func TestDiff(t *testing.T) {
	tests := []struct {
		name       string
		current    []string
		desired    []string
		wantAdd    []string
		wantRemove []string
	}{
		{"overlap", []string{"a", "b", "c"}, []string{"b", "c", "d"}, []string{"d"}, []string{"a"}},
		{"identical", []string{"a", "b"}, []string{"b", "a"}, []string{}, []string{}},
		{"from_empty", nil, []string{"a", "b"}, []string{"a", "b"}, []string{}},
		{"to_empty", []string{"a", "b"}, nil, []string{}, []string{"a", "b"}},
		{"duplicates_collapse", []string{"a", "a", "x", "x"}, []string{"b", "b", "a"}, []string{"b"}, []string{"x"}},
		{"both_empty", nil, nil, []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := reconcile.Diff(tt.current, tt.desired)
			assert.Equal(t, tt.wantAdd, plan.Add)
			assert.Equal(t, tt.wantRemove, plan.Remove)
			assert.Equal(t, len(tt.wantAdd) == 0 && len(tt.wantRemove) == 0, plan.Empty())
		})
	}
}

// memorySet is a tiny association store that records every primitive call.
type memorySet struct {
	mu      sync.Mutex
	members map[string]struct{}
	calls   []string
}

func newMemorySet(members ...string) *memorySet {
	set := &memorySet{members: make(map[string]struct{})}
	for _, member := range members {
		set.members[member] = struct{}{}
	}
	return set
}

func (set *memorySet) list() []string {
	set.mu.Lock()
	defer set.mu.Unlock()
	out := make([]string, 0, len(set.members))
	for member := range set.members {
		out = append(out, member)
	}
	slices.Sort(out)
	return out
}

func (set *memorySet) ops() reconcile.Ops[string] {
	return reconcile.Ops[string]{
		Add: func(_ context.Context, member string) error {
			set.mu.Lock()
			defer set.mu.Unlock()
			set.calls = append(set.calls, "+"+member)
			set.members[member] = struct{}{}
			return nil
		},
		Remove: func(_ context.Context, member string) error {
			set.mu.Lock()
			defer set.mu.Unlock()
			set.calls = append(set.calls, "-"+member)
			delete(set.members, member)
			return nil
		},
		Concurrency: 3,
	}
}

/*
TestReconcile_ConvergesAndIsIdempotent applies {a,b,c} -> {b,c,d} twice.
*/
func TestReconcile_ConvergesAndIsIdempotent(t *testing.T) {
	set := newMemorySet("a", "b", "c")
	desired := []string{"b", "c", "d"}

	plan, err := reconcile.Reconcile(context.Background(), set.list(), desired, set.ops())
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, plan.Add)
	assert.Equal(t, []string{"a"}, plan.Remove)
	assert.Equal(t, []string{"b", "c", "d"}, set.list())
	assert.ElementsMatch(t, []string{"+d", "-a"}, set.calls)

	set.calls = nil
	plan, err = reconcile.Reconcile(context.Background(), set.list(), desired, set.ops())
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	assert.Empty(t, set.calls, "second run must not touch storage")
}

/*
TestApply_AddsBeforeRemoves checks phase ordering.
*/
func TestApply_AddsBeforeRemoves(t *testing.T) {
	set := newMemorySet("x", "y")
	ops := set.ops()
	ops.Concurrency = 1

	plan := reconcile.Diff(set.list(), []string{"p", "q"})
	require.NoError(t, reconcile.Apply(context.Background(), plan, ops))

	require.Len(t, set.calls, 4)
	for _, call := range set.calls[:2] {
		assert.Equal(t, byte('+'), call[0])
	}
	for _, call := range set.calls[2:] {
		assert.Equal(t, byte('-'), call[0])
	}
}

/*
TestApply_AddFailureSkipsRemovePhase surfaces a PhaseError naming the member.
*/
func TestApply_AddFailureSkipsRemovePhase(t *testing.T) {
	boom := errors.New("disk full")
	removed := false

	ops := reconcile.Ops[string]{
		Add: func(_ context.Context, member string) error {
			if member == "bad" {
				return boom
			}
			return nil
		},
		Remove: func(context.Context, string) error {
			removed = true
			return nil
		},
	}

	err := reconcile.Apply(context.Background(), reconcile.Plan[string]{
		Add:    []string{"bad"},
		Remove: []string{"old"},
	}, ops)

	require.Error(t, err)
	var phaseErr *reconcile.PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, reconcile.PhaseAdd, phaseErr.Phase)
	assert.Equal(t, "bad", phaseErr.Member)
	assert.ErrorIs(t, err, boom)
	assert.False(t, removed)
}

/*
TestApply_RemoveFailure reports the remove phase.
*/
func TestApply_RemoveFailure(t *testing.T) {
	boom := errors.New("locked")
	ops := reconcile.Ops[string]{
		Add:    func(context.Context, string) error { return nil },
		Remove: func(context.Context, string) error { return boom },
	}

	err := reconcile.Apply(context.Background(), reconcile.Plan[string]{Remove: []string{"z"}}, ops)

	var phaseErr *reconcile.PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, reconcile.PhaseRemove, phaseErr.Phase)
	assert.Equal(t, "z", phaseErr.Member)
}

/*
TestApply_EmptyPlanNeedsNoOps tolerates nil primitives when there is nothing to do.
*/
func TestApply_EmptyPlanNeedsNoOps(t *testing.T) {
	err := reconcile.Apply(context.Background(), reconcile.Plan[int]{}, reconcile.Ops[int]{})
	assert.NoError(t, err)
}
