// Package progress turns the matcher's Progress callback (spec §4.8) into
// an optional out-of-process event stream, so a UI or log aggregator can
// watch a long autoMatchAll/propagateNames run without being in the same
// process. Grounded on the teacher's NATS operator
// (pkg/graft/operators/op_nats.go), trimmed to a plain publish — no
// JetStream, connection pooling or TTL caching, since a progress tick has
// no delivery-guarantee or replay requirement.
package progress

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Event is one progress tick published to NATS.
type Event struct {
	Pass      string    `json:"pass"`
	Done      int       `json:"done"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// NATSReporter publishes progress ticks to a subject on a NATS server.
type NATSReporter struct {
	conn    *nats.Conn
	subject string
}

// NewNATSReporter connects to url and returns a reporter publishing to
// subject. Callers must call Close when done.
func NewNATSReporter(url, subject string) (*NATSReporter, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("progress: connecting to nats: %w", err)
	}
	return &NATSReporter{conn: conn, subject: subject}, nil
}

// Close closes the underlying NATS connection (no drain).
func (r *NATSReporter) Close() {
	r.conn.Close()
}

// Reporter returns a Progress-shaped function for the given pass name,
// suitable for passing directly to autoMatchAll/propagateNames.
func (r *NATSReporter) Reporter(pass string) func(done, total int) {
	return func(done, total int) {
		payload, err := json.Marshal(Event{Pass: pass, Done: done, Total: total, Timestamp: time.Now()})
		if err != nil {
			return
		}
		// Best-effort: a dropped progress tick must never fail or slow
		// down the matching pass itself.
		_ = r.conn.Publish(r.subject, payload)
	}
}
