// Package observe provides telemetry for the query cache: a structured
// JSON logger, OpenTelemetry metrics for cache lookups and pool activity,
// and tracing around orchestrated queries.
package observe
