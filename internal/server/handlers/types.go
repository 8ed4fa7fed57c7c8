package handlers

import (
	"github.com/vzahanych/climate-outlook/internal/climate"
	"github.com/vzahanych/climate-outlook/internal/server/utils"
)

// AnalyzeRequest is the POST /analyze body. Coordinates are pointers so that
// 0 is accepted while a missing field is still rejected.
type AnalyzeRequest struct {
	Latitude         *float64 `json:"latitude" validate:"required,latitude"`
	Longitude        *float64 `json:"longitude" validate:"required,longitude"`
	TargetDate       string   `json:"target_date" validate:"required,calendar_date"`
	UserActivity     string   `json:"user_activity" validate:"max=200"`
	UserActivityDesc string   `json:"user_activity_desc" validate:"max=2000"`
}

// APIResponse is the envelope of every /analyze reply. Data and Error are
// always present and null when unset.
type APIResponse struct {
	Success bool                    `json:"success"`
	Data    interface{}             `json:"data"`
	Error   *string                 `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Details []utils.ValidationError `json:"details,omitempty"`
}

func failure(msg, code string) APIResponse {
	return APIResponse{Error: &msg, Code: code}
}

// FallbackData is returned in place of the enhanced report when enhancement
// is disabled or failed.
type FallbackData struct {
	RawAnalysis      *climate.SeasonalSummary `json:"raw_analysis"`
	EnhancementError string                   `json:"enhancement_error"`
	UserActivity     string                   `json:"user_activity"`
	UserActivityDesc string                   `json:"user_activity_desc"`
}

type InfoResponse struct {
	Message     string `json:"message"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Docs        string `json:"docs"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service,omitempty"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}
