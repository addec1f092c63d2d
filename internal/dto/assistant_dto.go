package dto

import "home-gateway-be/pkg/intent"

// AskRequest is the body of POST /. It is parsed whatever the content type.
type AskRequest struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
	Key    string `json:"key" validate:"required"`
}

type AssistantResponse struct {
	Response string        `json:"response"`
	Intent   intent.Intent `json:"intent"`
	// Image is the base64 camera frame the description was made from.
	Image string `json:"image,omitempty"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	Viewers         int    `json:"viewers"`
	Controllers     int    `json:"controllers"`
	PendingPairings int    `json:"pending_pairings"`
	HasFrame        bool   `json:"has_frame"`
}
