package queue

import (
	"encoding/json"
	"time"
)

// RequestType identifies the type of request in the queue
type RequestType string

const (
	// RequestTypeBuild compiles a manifest and stores the datapack
	RequestTypeBuild RequestType = "build"

	// RequestTypeValidate only checks a manifest against the schema and
	// compiles it without storing anything
	RequestTypeValidate RequestType = "validate"
)

// Request is one manifest waiting for a worker.
type Request struct {
	RequestID string      `json:"request_id"`
	Type      RequestType `json:"type"`

	// Manifest is the YAML document; it is base64 encoded on the wire.
	Manifest []byte `json:"manifest"`
	// Source names where the manifest came from, for logs only.
	Source string `json:"source,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
