package model

// Parent accounts created through Google sign-in have an empty PasswordHash
// and a non-empty GoogleID.
type Parent struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PasswordHash  string `json:"-"`
	Phone         string `json:"phone,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	GoogleID      string `json:"google_id,omitempty"`
	Ctime         int64  `json:"ctime"`
	Mtime         int64  `json:"mtime"`
}
