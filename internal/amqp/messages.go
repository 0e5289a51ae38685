package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"autosales/internal/core"
)

// ViewEvent records one rendered dashboard selection.
type ViewEvent struct {
	Report      string    `json:"report"`
	Year        int       `json:"year,omitempty"`
	Charts      int       `json:"charts"`
	Placeholder bool      `json:"placeholder"`
	CacheHit    bool      `json:"cache_hit"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewViewEvent describes the result shown for sel. The selection is
// normalised so counters do not split on values that cannot matter.
func NewViewEvent(sel core.Selection, result core.Result, cacheHit bool) *ViewEvent {
	sel = sel.Normalize()
	return &ViewEvent{
		Report:      string(sel.Report),
		Year:        sel.Year,
		Charts:      len(result.Charts),
		Placeholder: result.IsPlaceholder(),
		CacheHit:    cacheHit,
		Timestamp:   time.Now(),
	}
}

// Selection rebuilds the control state the event was produced for.
func (m *ViewEvent) Selection() core.Selection {
	return core.Selection{Report: core.ReportMode(m.Report), Year: m.Year}
}

// ToJSON converts the message to JSON bytes
func (m *ViewEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ViewEventFromJSON decodes and sanity checks a message body.
func ViewEventFromJSON(data []byte) (*ViewEvent, error) {
	var msg ViewEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Report == "" {
		return nil, errors.New("view event without report")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return &msg, nil
}
