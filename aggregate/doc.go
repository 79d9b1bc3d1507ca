// Package aggregate fans one logical operation out to every configured
// platform client in parallel and folds the outcomes back together.
//
// The orchestrator never fails an invocation outright: each per-platform
// call is raced against a deadline, attempted exactly once, and a client
// that times out or errors is isolated into the error list without
// disturbing its siblings. After all calls settle, results are merged in
// registry insertion order, deduplicated by entity id for fetches (first
// platform to produce an id wins), and every surviving record is stamped
// with the platform instance id it came from.
//
// Search deliberately skips deduplication: the same real-world entity may
// legitimately exist as distinct records in different platforms, and
// collapsing them would destroy that signal. Search failures are likewise
// swallowed rather than reported, because a partial search result is
// expected to degrade gracefully in the UI.
//
// Wall-clock latency of one invocation is bounded by the slowest
// non-timed-out client, not the sum: all calls are issued before any is
// awaited. Each call receives a context carrying its deadline, so a
// cooperating transport can stop work early; a non-cooperating client is
// abandoned at the deadline and its eventual result discarded.
package aggregate
