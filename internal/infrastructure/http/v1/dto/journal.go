package dto

import (
	"encoding/json"
	"time"

	"numera/internal/infrastructure/storage/postgres"
)

// JournalEntryResponse is a single issued-number record.
type JournalEntryResponse struct {
	ID            string          `json:"id"`
	RuleCode      string          `json:"ruleCode"`
	Number        string          `json:"number"`
	SequenceValue int64           `json:"sequenceValue"`
	WasReset      bool            `json:"wasReset"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	IssuedAt      time.Time       `json:"issuedAt"`
}

// FromJournalEntries converts journal entries to responses.
func FromJournalEntries(entries []postgres.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = JournalEntryResponse{
			ID:            e.ID.String(),
			RuleCode:      e.RuleCode,
			Number:        e.Number,
			SequenceValue: e.SequenceValue,
			WasReset:      e.WasReset,
			Metadata:      e.Metadata,
			IssuedAt:      e.IssuedAt,
		}
	}
	return out
}

// ListJournalRequest contains journal list filters.
type ListJournalRequest struct {
	PaginationRequest
	RuleCode string     `form:"ruleCode"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}
