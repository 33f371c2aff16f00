package models

// OutreachResult holds the metrics reported for a single campaign run.
type OutreachResult struct {
	ClientsReached     int `json:"clientsReached" validate:"gte=0"`
	ExecutionTime      int `json:"executionTime" validate:"gte=0"` // seconds
	EmailsSent         int `json:"emailsSent" validate:"gte=0"`
	SuccessRate        int `json:"successRate" validate:"gte=0,lte=100"`
	AvgPersonalization int `json:"avgPersonalization" validate:"gte=0,lte=100"`
}

// TriggerRequest is the optional body of a trigger call.
type TriggerRequest struct {
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Source    string `json:"source,omitempty"`
}

// ErrorResponse is returned by the API when a trigger fails.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
