package queue

import (
	"context"
	"encoding/json"
)

// MarkedEvent is the body of a TypeMarked message.
type MarkedEvent struct {
	Date       string `json:"date"`
	Subject    string `json:"subject"`
	RollNumber string `json:"roll_number"`
}

// PublishMarked encodes and publishes a confirmation event.
func PublishMarked(ctx context.Context, q Queue, evt MarkedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return q.Publish(ctx, Message{Type: TypeMarked, Body: body})
}

// DecodeMarked parses a TypeMarked body.
func DecodeMarked(body []byte) (MarkedEvent, error) {
	var evt MarkedEvent
	err := json.Unmarshal(body, &evt)
	return evt, err
}
