// Package cache provides the keyed TTL store every loader in this module is
// built on, plus the key namespace convention and read-through helpers.
//
// # Overview
//
// The package exports:
//
//   - Store: an in-memory keyed store with per-entry write timestamps, a
//     fixed TTL, and lazy eviction at read time
//   - GetOrFetch: the generic read-through operation combining cache lookup,
//     source fetch, and generation-guarded publication
//   - Key builders for the resource namespaces (projects:list,
//     project:<id>:transactions, project:<id>:milestones,
//     projects:progress-map)
//
// # Expiry model
//
// There is no background eviction. Get and Has evaluate the TTL at call time
// and remove an expired entry as a side effect of the check. This trades a
// small amount of memory (stale entries linger until next access) for not
// needing a scheduler. Peek exists for the one caller that wants expired
// data on purpose: the stale-if-error fallback in the loaders.
//
// # Refresh races
//
// Two overlapping refreshes of the same key would otherwise race on Set,
// with the slower network response winning regardless of which request was
// issued last. The Store therefore tracks a request generation per key:
//
//	gen := store.Begin(key)
//	value, err := fetchFromSource(ctx)
//	if err == nil {
//		store.CompareAndSet(key, gen, value)
//	}
//
// A response whose generation was superseded while in flight is discarded.
// GetOrFetch wraps this protocol so loaders do not hand-roll it.
//
// # Ownership
//
// Values stored here are owned by the store and must be treated as
// immutable. The loader layer returns copies of slices and maps to its
// callers so external mutation cannot corrupt cached state.
package cache
