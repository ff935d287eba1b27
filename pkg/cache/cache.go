// Package cache stores rendered chart images between runs.
//
// Rendering is deterministic: the same joined table drawn with the same chart
// settings always yields the same PNG. Entries are therefore keyed by a hash
// of the table plus every setting that affects the drawing, and a changed
// input simply misses.
//
// Two backends are provided: [FileCache] keeps entries under a directory on
// disk, and [NullCache] stores nothing, for default runs and tests.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered chart stays cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. The bool reports a hit; an expired or
	// unreadable entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
