// Package pickevents holds the topics and payloads published by the pick module.
package pickevents

import "time"

// PickSubmittedV1 is published after a pick is stored.
const PickSubmittedV1 = "pick.submitted.v1"

// PickSubmittedPayloadV1 never carries the picked team: the bus is readable by
// consumers that have no visibility context.
type PickSubmittedPayloadV1 struct {
	Player      string    `json:"player"`
	GameID      string    `json:"game_id"`
	ByAdmin     bool      `json:"by_admin"`
	SubmittedAt time.Time `json:"submitted_at"`
}
