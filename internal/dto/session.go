// Package dto provides Data Transfer Objects for API responses and SSE events.
//
// DTOs are self-contained views of a finder session: a client can render a
// slot or a result grid from a single event without asking for the rest of
// the session.
package dto

import (
	"time"

	"github.com/kz4killua/wikirec/internal/domain"
)

// Slot is the client-facing view of one preference slot.
type Slot struct {
	ID          int              `json:"id"`
	Placeholder string           `json:"placeholder"`
	State       domain.SlotState `json:"state"`

	// Query is the text currently in the input. For a confirmed slot it is the confirmed title.
	Query string `json:"query"`

	// Candidates are the search hits for the current query. Empty while confirmed.
	Candidates []domain.Candidate `json:"candidates"`

	// ShowCandidates is set when the candidate list should be visible:
	// the slot has focus, is not confirmed and has hits.
	ShowCandidates bool `json:"show_candidates"`

	Searching bool `json:"searching"`
	Focused   bool `json:"focused"`

	ConfirmedKey   string `json:"confirmed_key,omitempty"`
	ConfirmedTitle string `json:"confirmed_title,omitempty"`

	// Hint is shown under an input that was typed in but never confirmed.
	Hint string `json:"hint,omitempty"`
}

// Session is a full snapshot of a finder session.
type Session struct {
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Results       *Results        `json:"results,omitempty"`
	ID            string          `json:"id"`
	Category      domain.Category `json:"category,omitempty"`
	CategoryLabel string          `json:"category_label,omitempty"`
	Notice        string          `json:"notice,omitempty"`
	Slots         []Slot          `json:"slots"`
	Loading       bool            `json:"loading"`
}

// Category is one entry of the category selector.
type Category struct {
	Value domain.Category `json:"value"`
	Label string          `json:"label"`
}

// Categories lists the selectable categories in display order.
func Categories() []Category {
	all := domain.Categories()
	out := make([]Category, 0, len(all))
	for _, c := range all {
		out = append(out, Category{Value: c, Label: c.Label()})
	}
	return out
}
