package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names (must match the ETL publisher)
const (
	StreamDatasetRefreshed = "stream:dataset:refreshed"
)

// DatasetRefreshedEvent is published by the ETL pipeline after it reloads
// the record tables. Consumers use it as the explicit trigger to refresh
// facet caches.
type DatasetRefreshedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Dataset     string    `json:"dataset"`
	Tables      []string  `json:"tables,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Touches reports whether the event covers table. An event without an
// explicit table list covers every table.
func (e *DatasetRefreshedEvent) Touches(table string) bool {
	if len(e.Tables) == 0 {
		return true
	}
	for _, t := range e.Tables {
		if t == table {
			return true
		}
	}
	return false
}

// StreamMessage is a message read from a Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
