package dto

import (
	"encoding/json"
	"strings"
)

// SubmitWasteForm: multipart form for creating a submission. Tag lists arrive
// either as a JSON array string or comma-separated values.
type SubmitWasteForm struct {
	PredictedCategory  *string  `form:"predicted_category"`
	ConfidenceScore    *float64 `form:"confidence_score"`
	ConfirmedCategory  *string  `form:"confirmed_category"`
	WasteTypes         string   `form:"waste_types"`
	WasteAdjectives    string   `form:"waste_adjectives"`
	WasteDescription   string   `form:"waste_description"`
	Latitude           *float64 `form:"latitude"`
	Longitude          *float64 `form:"longitude"`
	AddressDescription string   `form:"address_description"`
	BarangayID         *int64   `form:"barangay_id"`
}

// ParseTagList tolerates both encodings clients send for tag fields. Anything
// unparseable degrades to an empty list, matching read-side leniency.
func ParseTagList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	if strings.HasPrefix(raw, "[") {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return []string{}
		}
		return values
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// UpdateSubmissionRequest: partial JSON edit of a pending or scheduled
// submission. Absent fields stay untouched.
type UpdateSubmissionRequest struct {
	ConfirmedCategory  *string   `json:"confirmed_category,omitempty"`
	WasteTypes         *[]string `json:"waste_types,omitempty"`
	WasteAdjectives    *[]string `json:"waste_adjectives,omitempty"`
	WasteDescription   *string   `json:"waste_description,omitempty"`
	AddressDescription *string   `json:"address_description,omitempty"`
	BarangayID         *int64    `json:"barangay_id,omitempty"`
	Latitude           *float64  `json:"latitude,omitempty"`
	Longitude          *float64  `json:"longitude,omitempty"`
	ScheduledDate      *string   `json:"scheduled_date,omitempty"` // "2006-01-02", admins only
}

// AnalyzeRequest: label list from the client-side recognizer
type AnalyzeRequest struct {
	Labels []string `json:"labels" binding:"required"`
}
