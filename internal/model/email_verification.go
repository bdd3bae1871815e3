package model

type EmailVerification struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id"`
	Ctime     int64  `json:"ctime"`
	ExpiresAt int64  `json:"expires_at"`
}

func (v *EmailVerification) Expired(now int64) bool {
	return v.ExpiresAt < now
}
