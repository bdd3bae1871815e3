package model

type Teacher struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PasswordHash    string `json:"-"`
	Phone           string `json:"phone,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Specializations string `json:"specializations,omitempty"`
	Ctime           int64  `json:"ctime"`
	Mtime           int64  `json:"mtime"`
}
