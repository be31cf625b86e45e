package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// EnvelopeVersion tags backup envelopes so future format changes stay detectable.
const EnvelopeVersion = 1

// Envelope wraps a serialized snapshot for backup and restore. The payload is
// carried as a string so the envelope survives being pasted through clients
// that re-encode JSON.
type Envelope struct {
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      string    `json:"data"`
}

// EncodeBackup wraps a snapshot in a versioned, timestamped envelope string.
func EncodeBackup(snap *Snapshot) (string, error) {
	payload, err := EncodeSnapshot(snap)
	if err != nil {
		return "", err
	}

	env := Envelope{
		Version:   EnvelopeVersion,
		Timestamp: time.Now().UTC(),
		Data:      string(payload),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to serialize backup envelope: %w", err)
	}
	return string(raw), nil
}

// DecodeBackup validates an envelope string and returns the snapshot it
// carries. The version tag and payload are both checked before anything is
// returned, so a malformed envelope can never reach a backend's state.
func DecodeBackup(envelope string) (*Snapshot, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(envelope), &env); err != nil {
		return nil, fmt.Errorf("%w: malformed backup envelope: %v", ErrInvalidSnapshot, err)
	}
	if env.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported backup version %d", ErrInvalidSnapshot, env.Version)
	}
	if env.Data == "" {
		return nil, fmt.Errorf("%w: backup envelope has no payload", ErrInvalidSnapshot)
	}
	return DecodeSnapshot([]byte(env.Data))
}
