package api

// Wire contracts for the rendering service. Both the job client and the
// bundled render service marshal through these shapes.

type StartRequest struct {
	DocType  string         `json:"docType" validate:"required"`
	FormData map[string]any `json:"formData" validate:"required"`
	Language string         `json:"language" validate:"required,oneof=tr en"`
}

type StartResponse struct {
	JobID     string `json:"jobId"`
	StatusURL string `json:"status_url,omitempty"`
}

// StatusResponse carries every diagnostic field the server may emit.
// Downstream code never sniffs alternate field names; normalization into a
// canonical Job happens once, in the adapter package.
type StatusResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
