package service

import (
	"crypto/subtle"

	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
)

var errInvalidAdminCredentials = appErr.New(appErr.ErrUnauthorized, "invalid credentials")

type AdminService struct {
	username string
	password string
	issuer   *jwt.Issuer
}

func NewAdminService(username, password string, issuer *jwt.Issuer) *AdminService {
	return &AdminService{username: username, password: password, issuer: issuer}
}

// Login checks the static credentials and returns a long-lived admin token.
// No session is cached for administrators.
func (s *AdminService) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password))
	if userOK&passOK != 1 {
		return "", errInvalidAdminCredentials
	}
	return s.issuer.IssueAdmin(s.username)
}
