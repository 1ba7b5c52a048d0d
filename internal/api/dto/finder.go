package dto

import (
	"time"

	"github.com/kz4killua/wikirec/internal/domain"
	view "github.com/kz4killua/wikirec/internal/dto"
)

// CategoryListResponse lists the recommendation categories.
type CategoryListResponse struct {
	Categories []view.Category `json:"categories" doc:"Categories in display order"`
}

// CategoryListOutput wraps the category list for huma.
type CategoryListOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         CategoryListResponse
}

// TitleSearchInput contains parameters for a title search.
type TitleSearchInput struct {
	Query string `query:"q" maxLength:"300" doc:"Text typed so far"`
	Limit int    `query:"limit" default:"5" minimum:"1" maximum:"20" doc:"Maximum candidates"`
}

// TitleSearchResponse lists title candidates for a query.
type TitleSearchResponse struct {
	Query      string             `json:"query" doc:"Query as typed"`
	Candidates []domain.Candidate `json:"candidates" doc:"Matching pages in relevance order"`
}

// TitleSearchOutput wraps the title search response for huma.
type TitleSearchOutput struct {
	Body TitleSearchResponse
}

// RecommendRequest is the body of a one-shot recommendation request.
type RecommendRequest struct {
	PageKeys []string `json:"page_keys,omitempty" validate:"max=10,dive,pagekey" doc:"Wikipedia page keys to seed from"`
	Category string   `json:"category,omitempty" doc:"movies, tv-series, books, music or games"`
}

// RecommendInput wraps the recommendation request for huma.
type RecommendInput struct {
	Body RecommendRequest
}

// ResultsOutput wraps a results layout for huma.
type ResultsOutput struct {
	Body view.Results
}

// CreateSessionResponse carries a new session and the token that unlocks it.
type CreateSessionResponse struct {
	ExpiresAt time.Time    `json:"expires_at" doc:"Token expiry"`
	Session   view.Session `json:"session" doc:"Initial session state"`
	Token     string       `json:"token" doc:"Bearer token for this session's endpoints"`
}

// CreateSessionOutput wraps the create session response for huma.
type CreateSessionOutput struct {
	Body CreateSessionResponse
}

// SessionInput addresses a session.
type SessionInput struct {
	SessionParam
}

// SessionOutput wraps a session snapshot for huma.
type SessionOutput struct {
	Body view.Session
}

// SlotInput addresses a slot.
type SlotInput struct {
	SlotParams
}

// SlotOutput wraps a slot view for huma.
type SlotOutput struct {
	Body view.Slot
}

// SetQueryRequest is the body for updating a slot's text.
type SetQueryRequest struct {
	Text string `json:"text" validate:"max=300" doc:"Current input text, may be empty"`
}

// SetQueryInput wraps the set query request for huma.
type SetQueryInput struct {
	SlotParams
	Body SetQueryRequest
}

// ConfirmRequest is the body for confirming a candidate.
type ConfirmRequest struct {
	Key string `json:"key" validate:"required,pagekey,max=512" doc:"Page key of the chosen candidate"`
}

// ConfirmInput wraps the confirm request for huma.
type ConfirmInput struct {
	SlotParams
	Body ConfirmRequest
}

// SetCategoryRequest is the body for choosing a category.
type SetCategoryRequest struct {
	Category string `json:"category" validate:"required,category" doc:"movies, tv-series, books, music or games"`
}

// SetCategoryInput wraps the set category request for huma.
type SetCategoryInput struct {
	SessionParam
	Body SetCategoryRequest
}

// SubmitResponse reports what happened to a submit.
type SubmitResponse struct {
	Status string `json:"status" enum:"accepted,pending" doc:"accepted starts a request; pending means one is already running"`
}

// SubmitOutput wraps the submit response for huma.
type SubmitOutput struct {
	Body SubmitResponse
}
