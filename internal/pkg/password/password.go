package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest input bcrypt accepts.
const MaxLength = 72

var ErrEmpty = errors.New("password is empty")

func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	if len(plain) > MaxLength {
		return "", bcrypt.ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Match reports whether plain matches hash. Accounts without a password
// (Google-only parents) never match.
func Match(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
