package models

// ErrorResponse is the error envelope for every failure: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// SuccessResponse acknowledges a write with no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// NewSuccessResponse creates a bare success acknowledgement
func NewSuccessResponse() SuccessResponse {
	return SuccessResponse{Success: true}
}

// CreateDonationResponse is returned after a listing is created.
type CreateDonationResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// UpdateDonationResponse is returned after a listing patch; ImageURL is set
// when the patch replaced the image.
type UpdateDonationResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// DonationList wraps the full listing feed.
type DonationList struct {
	Donations []*Donation `json:"donations"`
}

// AvatarResponse is returned after an avatar upload.
type AvatarResponse struct {
	Success bool   `json:"success"`
	Avatar  string `json:"avatar"`
}
