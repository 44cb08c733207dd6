// Package config assembles the runtime configuration for benchmark runs.
// Values come from the environment first, optionally overlaid by a YAML
// file, and every string passes through the secret resolver so endpoints
// and AUTH tokens can reference ${VAR} or secretref values.
package config
