// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
)

// releaseScript deletes the key only while it still carries our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript pushes the expiry out only while the key still carries our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// releaseTimeout bounds the unlock and renewal round-trips, which run
// detached from the caller.
const releaseTimeout = 2 * time.Second

// renewalsPerLease is how many times a held lease is extended within one TTL.
const renewalsPerLease = 3

// RedisOptions tunes a [RedisLocker].
type RedisOptions struct {
	// Prefix is prepended to every lock key.
	Prefix string
	// TTL is the lease length. A live holder renews it every TTL/3; a crashed
	// holder frees the key once it runs out.
	TTL time.Duration
	// Wait is the total time spent retrying a busy key.
	Wait time.Duration
	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration
}

// RedisLocker implements [Locker] on top of a shared Redis.
type RedisLocker struct {
	client  redis.UniversalClient
	options RedisOptions
	logger  *slog.Logger
}

// NewRedisLocker constructs a [RedisLocker].
func NewRedisLocker(client redis.UniversalClient, options RedisOptions, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{client: client, options: options, logger: logger}
}

// Acquire implements [Locker].
func (locker *RedisLocker) Acquire(context context.Context, key string) (Unlock, error) {
	redisKey := locker.options.Prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(locker.options.Wait)

	for {
		acquired, err := locker.client.SetNX(context, redisKey, token, locker.options.TTL).Result()
		if err != nil {
			if errors.Is(err, context.Err()) {
				return nil, err
			}
			return nil, apperr.StorageFailure(err).WithOp("acquire_lock").WithKey(key)
		}
		if acquired {
			return locker.hold(redisKey, token), nil
		}

		if time.Now().Add(locker.options.RetryInterval).After(deadline) {
			return nil, errBusy(key)
		}

		select {
		case <-time.After(locker.options.RetryInterval):
		case <-context.Done():
			return nil, context.Err()
		}
	}
}

// hold keeps the lease alive until the returned [Unlock] runs, then releases it.
func (locker *RedisLocker) hold(redisKey, token string) Unlock {
	renewCtx, stopRenewal := context.WithCancel(context.Background())
	renewed := make(chan struct{})

	go func() {
		defer close(renewed)
		keepAlive(renewCtx, locker.options.TTL/renewalsPerLease,
			func(ctx context.Context) (bool, error) {
				return extendScript.Run(ctx, locker.client, []string{redisKey}, token, locker.options.TTL.Milliseconds()).Bool()
			},
			func(err error) {
				locker.logger.Warn("lock_renewal_failed",
					slog.String("key", redisKey),
					slog.Any("error", err),
				)
			},
		)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopRenewal()
			<-renewed

			releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, locker.client, []string{redisKey}, token).Err(); err != nil {
				locker.logger.Warn("lock_release_failed",
					slog.String("key", redisKey),
					slog.Any("error", err),
				)
			}
		})
	}
}

// errLeaseLost reports that the key expired or changed hands while held.
var errLeaseLost = errors.New("lock: lease no longer held")

/*
keepAlive calls extend every interval until ctx is cancelled.

Every failure is passed to onFailure. A failed round-trip is retried on the
next tick; once extend reports the lease gone ([errLeaseLost]) renewal stops.
*/
func keepAlive(ctx context.Context, interval time.Duration, extend func(context.Context) (bool, error), onFailure func(error)) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		callCtx, cancel := context.WithTimeout(ctx, releaseTimeout)
		held, err := extend(callCtx)
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err != nil {
			onFailure(err)
			continue
		}
		if !held {
			onFailure(errLeaseLost)
			return
		}
	}
}
