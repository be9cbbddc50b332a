// Package store keeps a SQLite-backed history of conversions.
//
// Each record holds the input kind and text as the user gave them, the
// leap-second table the conversion used, the full set of output fields and
// any warning codes. Records are append-only.
//
// # Ordering
//
// History is ordered by the seq column (insertion order), never by
// recorded_at, so records written within the same clock tick still list
// deterministically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
