package schema

import (
	"encoding/json"
	"time"
)

// ResetEmail is the message published at issuance time and consumed by the
// email worker. It carries the raw token, so it must never be logged.
type ResetEmail struct {
	Email       string
	DisplayName string
	Token       string
	ExpiresAt   time.Time
}

func (r *ResetEmail) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func (r *ResetEmail) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}
