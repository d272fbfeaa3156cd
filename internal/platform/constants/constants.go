// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Catalog Limits: Field caps enforced by the item and tag services.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "loopdex"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Catalog Limits

const (
	// MaxItemKeyLength caps the storage-stable unique key of an item.
	MaxItemKeyLength = 128

	// MaxSourceURLLength caps a single source attribution URL.
	MaxSourceURLLength = 128

	// MaxTagsPerItem bounds a single tag replacement request.
	MaxTagsPerItem = 200

	// MaxSourcesPerItem bounds a single source replacement request.
	MaxSourcesPerItem = 20

	// MaxSearchTokens bounds the positive plus negative tokens of one query.
	MaxSearchTokens = 32

	// ReconcileConcurrency bounds the in-flight writes of one reconcile phase.
	ReconcileConcurrency = 4
)

// # Item Locking

const (
	// ItemLockTTL is the lease of a per-item mutation lock. The holder renews it
	// while reconciling, so it only bounds how long a crashed holder blocks the item.
	ItemLockTTL = 10 * time.Second

	// ItemLockWait is how long a caller waits for a contended item lock.
	ItemLockWait = 3 * time.Second

	// ItemLockRetryInterval is the polling interval while waiting for a lock.
	ItemLockRetryInterval = 50 * time.Millisecond
)

// # Authentication

const (
	// AuthIssuer is the expected 'iss' claim in JWTs presented to the API.
	AuthIssuer = "loopdex.app"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCatalog = "catalog"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixItemLock = "catalog:item_lock:"
)
