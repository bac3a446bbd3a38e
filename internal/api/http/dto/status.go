package dto

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type SubmitCredentialRequest struct {
	APIKey string `json:"api_key"`
}

// StatusResponse is the body of every node endpoint reply. Exactly one of
// Message or Details is set.
type StatusResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Details *string `json:"details,omitempty"`
}

func SuccessMessage(message string) StatusResponse {
	return StatusResponse{Status: StatusSuccess, Message: message}
}

func SuccessDetails(details string) StatusResponse {
	return StatusResponse{Status: StatusSuccess, Details: &details}
}

func ErrorMessage(message string) StatusResponse {
	return StatusResponse{Status: StatusError, Message: message}
}

func ErrorDetails(details string) StatusResponse {
	return StatusResponse{Status: StatusError, Details: &details}
}
