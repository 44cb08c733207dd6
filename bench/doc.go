// Package bench measures cache-aside query latency across three ordered
// phases sharing one orchestrator and pool.
//
// The cold phase pays connection warm-up and the first backend round trip.
// The warm and optimized phases reuse the same pool and, within the TTL,
// serve from cache. The report compares mean miss latency against mean hit
// latency to quantify the caching speedup.
package bench
