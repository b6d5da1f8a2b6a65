package store

import (
	"encoding/json"
	"fmt"

	"nadcal/internal/event"
)

// collection is the persisted document: {"events": [...]}.
type collection struct {
	Events []event.Event `json:"events"`
}

func encodeCollection(events []event.Event) ([]byte, error) {
	if events == nil {
		events = []event.Event{}
	}
	raw, err := json.MarshalIndent(collection{Events: events}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal events: %w", err)
	}
	return raw, nil
}

func decodeCollection(raw []byte) ([]event.Event, error) {
	var c collection
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return c.Events, nil
}
