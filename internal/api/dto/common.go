// Package dto provides request and response types for the wikirec API.
// These types are used by huma to generate OpenAPI documentation and perform validation.
package dto

// SessionParam is the path parameter naming a finder session.
type SessionParam struct {
	SessionID string `path:"id" doc:"Finder session ID"`
}

// SlotParams address one preference slot of a finder session.
type SlotParams struct {
	SessionID string `path:"id" doc:"Finder session ID"`
	Slot      int    `path:"slot" minimum:"1" maximum:"3" doc:"Slot number (1-3)"`
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}
