package query

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the cached form of a query result: the payload plus the
// backend execution time it originally cost, so hits can report the
// latency they avoided.
type envelope struct {
	Result         json.RawMessage `json:"result"`
	BackendSeconds float64         `json:"backend_seconds"`
}

// encodeEnvelope wraps a backend payload for cache storage.
func encodeEnvelope(payload []byte, backendElapsed time.Duration) ([]byte, error) {
	data, err := json.Marshal(envelope{
		Result:         json.RawMessage(payload),
		BackendSeconds: backendElapsed.Seconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("query: encode envelope: %w", err)
	}
	return data, nil
}

// decodeEnvelope unwraps a cached entry. A corrupt entry returns an
// error; callers treat that as a miss.
func decodeEnvelope(data []byte) ([]byte, time.Duration, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, 0, fmt.Errorf("query: decode envelope: %w", err)
	}
	return env.Result, time.Duration(env.BackendSeconds * float64(time.Second)), nil
}
