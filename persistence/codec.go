package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Danii44/PRIMEHODDIE/models"
)

var ErrMalformedRecord = errors.New("malformed persisted record")

// envelope is the shape browser storage used: the state nested under "state".
type envelope struct {
	State   *models.PersistedState `json:"state"`
	Version int                    `json:"version"`
}

// Encode writes the flat {cart, wishlist, user} record.
func Encode(state models.PersistedState) ([]byte, error) {
	return json.Marshal(models.NormalizeState(state))
}

// Decode reads a record in either the flat or the enveloped shape. Absent
// fields decode to their empty value and the result is normalized.
func Decode(data []byte) (models.PersistedState, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return models.EmptyState(), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.EmptyState(), fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	if _, wrapped := fields["state"]; wrapped {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return models.EmptyState(), fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		if env.State == nil {
			return models.EmptyState(), nil
		}
		return models.NormalizeState(*env.State), nil
	}

	var state models.PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.EmptyState(), fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return models.NormalizeState(state), nil
}
