package handlers

import (
	"github.com/wrtgvr/rimdash-connect/internal/domain"
)

//* Request
type InputRequest struct {
	URL string `json:"url"`
}

//* Response
type ConnectionResponse struct {
	CandidateURL string          `json:"candidate_url"`
	IsValid      bool            `json:"is_valid"`
	IsProbing    bool            `json:"is_probing"`
	Error        string          `json:"error,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	ActiveURL    string          `json:"active_url"`
	Status       *StatusResponse `json:"status,omitempty"`
}

type StatusResponse struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	OK          bool   `json:"ok"`
	StatusCode  int    `json:"status_code,omitempty"`
	Error       string `json:"error,omitempty"`
	LastChecked string `json:"last_checked_at"`
	LatencyMs   int64  `json:"latency_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

type PresetsResponse struct {
	Presets []domain.Preset `json:"presets"`
}

type GuideResponse struct {
	Steps []string `json:"steps"`
}

type TipResponse struct {
	Tip string `json:"tip"`
}
