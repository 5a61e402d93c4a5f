package dto

import "github.com/tsidhwani/Stoic-Companion-AI/internal/stoic"

// ChatRequest is a single stateless chat turn.
type ChatRequest struct {
	Message       string `json:"message" validate:"required"`
	SystemPersona string `json:"system_persona,omitempty"`
	Model         string `json:"model,omitempty"`
}

// ChatResponse carries the trimmed upstream reply and the model that produced it.
type ChatResponse struct {
	Reply string `json:"reply"`
	Model string `json:"model"`
}

// ScoreRequest asks for a classification of ProposedResponse against Problem.
type ScoreRequest struct {
	Problem          string `json:"problem" validate:"required"`
	ProposedResponse string `json:"proposed_response" validate:"required"`
	Model            string `json:"model,omitempty"`
}

// ScoreResponse is the interpreted classification plus the model identifier used.
type ScoreResponse struct {
	stoic.Classification
	Model string `json:"model"`
}
