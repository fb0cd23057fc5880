package action

import "encoding/json"

// PayloadIn is the message a client sends when it is their turn, i.e.
// {"action":"raise","amount":5}
type PayloadIn struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

// ParsePayload decodes a raw client message into an action plus an optional
// raise amount. The protocol never rejects a message: malformed JSON, an
// unknown action, or a non-positive raise amount all resolve to a Fold.
func ParsePayload(data []byte) (Action, int) {
	var payload PayloadIn
	if err := json.Unmarshal(data, &payload); err != nil {
		return Fold, 0
	}

	a, err := FromString(payload.Action)
	if err != nil {
		return Fold, 0
	}

	if a == Raise && payload.Amount <= 0 {
		return Fold, 0
	}

	return a, payload.Amount
}
