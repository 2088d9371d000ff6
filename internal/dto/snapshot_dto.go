package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// PersistSnapshotMessage is the internal bus payload asking the consumer to
// upsert a session snapshot.
type PersistSnapshotMessage struct {
	SessionId    uuid.UUID       `json:"session_id"`
	Status       string          `json:"status"`
	CurrentPhase string          `json:"current_phase"`
	Snapshot     json.RawMessage `json:"snapshot"`
}
