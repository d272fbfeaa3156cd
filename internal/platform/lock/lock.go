// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lock serialises mutations of a single catalog entity.

Two implementations satisfy [Locker]:

  - [RedisLocker]: SET NX PX with a random token. The lease is renewed while
    held and released by a Lua script that only deletes the key while it still
    holds that token. Used when several API instances share one database.
  - [LocalLocker]: an in-process keyed mutex for single-instance deployments
    and tests.

A lock that cannot be acquired within the wait budget yields a CONFLICT
[apperr.AppError] so callers can retry.
*/
package lock

import (
	"context"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
)

// Unlock releases a held lock. It is safe to call more than once.
type Unlock func()

// Locker acquires named mutual-exclusion locks.
type Locker interface {
	Acquire(context context.Context, key string) (Unlock, error)
}

// errBusy is returned when the wait budget runs out.
func errBusy(key string) error {
	return apperr.Conflict("Another update to this entity is in progress").WithOp("acquire_lock").WithKey(key)
}
