package dto

type UpdateSessionRequest struct {
	Token string `json:"token"`
}

// UpdateSessionResponse is written as a flat body (not the success
// envelope) because the login flow reads isProfileComplete before the
// cookie round-trips.
type UpdateSessionResponse struct {
	Success           bool `json:"success"`
	IsProfileComplete bool `json:"isProfileComplete"`
}
