package dto

// ItemError records one failed item from a processing pass.
type ItemError struct {
	ItemID   string `json:"itemID"`
	WorkerID string `json:"workerID"`
	Reason   string `json:"reason"`
}

// ProcessRunSummary is the structured result of a payment execution pass.
// Partial failure is an expected outcome, reported here rather than raised.
type ProcessRunSummary struct {
	RunID      string      `json:"runID"`
	RunStatus  string      `json:"runStatus"`
	Total      int         `json:"total"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Skipped    int         `json:"skipped"`
	Errors     []ItemError `json:"errors,omitempty"`
}
