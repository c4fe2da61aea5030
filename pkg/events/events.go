// Package events defines the catalog lifecycle events published on the bus.
package events

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every catalog event.
const Topic = "microflow.catalog"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	DocumentValidatedEvent EventType = "catalog.document.validated"
	CatalogSyncedEvent     EventType = "catalog.synced"
)

var ErrInvalidEvent = errors.New("event is missing required fields")

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// DocumentValidated is published after every validation run, pass or fail.
type DocumentValidated struct {
	BaseEvent

	RunID        string `json:"run_id"`
	DocumentID   string `json:"document_id"`
	Path         string `json:"path,omitempty"`
	Valid        bool   `json:"valid"`
	ErrorCount   int    `json:"error_count"`
	WarningCount int    `json:"warning_count"`
}

func NewDocumentValidated(runID, documentID string) *DocumentValidated {
	return &DocumentValidated{
		BaseEvent:  NewBaseEvent(DocumentValidatedEvent),
		RunID:      runID,
		DocumentID: documentID,
	}
}

func (e DocumentValidated) GetType() EventType {
	return DocumentValidatedEvent
}

func (e DocumentValidated) Validate() error {
	if e.ID == "" || e.RunID == "" || e.DocumentID == "" {
		return ErrInvalidEvent
	}

	return nil
}

// CatalogSynced is published after a catalog sync completes.
type CatalogSynced struct {
	BaseEvent

	Repository string `json:"repository"`
	Fetched    int    `json:"fetched"`
	Stored     int    `json:"stored"`
	Failed     int    `json:"failed"`
}

func NewCatalogSynced(repository string) *CatalogSynced {
	return &CatalogSynced{
		BaseEvent:  NewBaseEvent(CatalogSyncedEvent),
		Repository: repository,
	}
}

func (e CatalogSynced) GetType() EventType {
	return CatalogSyncedEvent
}

func (e CatalogSynced) Validate() error {
	if e.ID == "" || e.Repository == "" {
		return ErrInvalidEvent
	}

	return nil
}
