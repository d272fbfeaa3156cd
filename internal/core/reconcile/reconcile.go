// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reconcile turns "here is the list I want" into the minimal set of
inserts and deletes against a stored association.

Item tags, item sources, tag aliases and tag implications are all edited the
same way: the caller submits the complete desired list, [Diff] compares it with
the stored list, and [Apply] runs the add phase followed by the remove phase.

# Guarantees

  - Members present on both sides are never touched.
  - Duplicates in either input collapse to one member.
  - Re-applying the same desired list converges: the second diff is empty.

Apply is not atomic. A failure stops the current phase, skips the next one,
and is reported as a [*PhaseError] naming the phase and the member. Storage
primitives must therefore be idempotent (insert-if-absent, delete-if-present)
so a retry can finish the job.
*/
package reconcile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/loopdex/pkg/slice"
)

// # Plan

// Plan is the difference between a stored and a desired collection.
type Plan[K comparable] struct {
	// Add holds members to insert, in desired order.
	Add []K
	// Remove holds members to delete, in current order.
	Remove []K
}

// Empty reports whether applying the plan would change nothing.
func (plan Plan[K]) Empty() bool {
	return len(plan.Add) == 0 && len(plan.Remove) == 0
}

// Diff computes desired − current (Add) and current − desired (Remove).
//
// Both results are deduplicated and never nil.
func Diff[K comparable](current, desired []K) Plan[K] {
	currentSet := slice.Set(current)
	desiredSet := slice.Set(desired)

	plan := Plan[K]{Add: make([]K, 0), Remove: make([]K, 0)}

	for _, member := range slice.Unique(desired) {
		if _, stored := currentSet[member]; !stored {
			plan.Add = append(plan.Add, member)
		}
	}

	for _, member := range slice.Unique(current) {
		if _, wanted := desiredSet[member]; !wanted {
			plan.Remove = append(plan.Remove, member)
		}
	}

	return plan
}

// # Apply

// Phase names one half of an [Apply] run.
type Phase string

const (
	PhaseAdd    Phase = "add"
	PhaseRemove Phase = "remove"
)

// Ops carries the storage primitives of one association.
type Ops[K comparable] struct {
	// Add inserts a single member. Inserting an existing member must succeed.
	Add func(context context.Context, member K) error
	// Remove deletes a single member. Deleting a missing member must succeed.
	Remove func(context context.Context, member K) error
	// Concurrency bounds in-flight calls within a phase; values below 1 mean 1.
	Concurrency int
}

// PhaseError reports the first failing member of a phase.
type PhaseError struct {
	Phase  Phase
	Member string
	Err    error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("reconcile %s %q: %v", e.Phase, e.Member, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Apply executes plan: every Add, then every Remove.
//
// Within a phase members are independent and dispatched concurrently up to
// ops.Concurrency. The remove phase does not start if any add failed.
func Apply[K comparable](context context.Context, plan Plan[K], ops Ops[K]) error {
	if err := runPhase(context, PhaseAdd, plan.Add, ops.Add, ops.Concurrency); err != nil {
		return err
	}
	return runPhase(context, PhaseRemove, plan.Remove, ops.Remove, ops.Concurrency)
}

// Reconcile is [Diff] followed by [Apply]. It returns the applied plan.
func Reconcile[K comparable](context context.Context, current, desired []K, ops Ops[K]) (Plan[K], error) {
	plan := Diff(current, desired)
	if plan.Empty() {
		return plan, nil
	}
	return plan, Apply(context, plan, ops)
}

func runPhase[K comparable](ctx context.Context, phase Phase, members []K, op func(context.Context, K) error, concurrency int) error {
	if len(members) == 0 {
		return nil
	}
	if op == nil {
		return &PhaseError{Phase: phase, Err: fmt.Errorf("no %s operation configured", phase)}
	}
	if concurrency < 1 {
		concurrency = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, member := range members {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return &PhaseError{Phase: phase, Member: fmt.Sprint(member), Err: err}
			}
			if err := op(groupCtx, member); err != nil {
				return &PhaseError{Phase: phase, Member: fmt.Sprint(member), Err: err}
			}
			return nil
		})
	}

	return group.Wait()
}
