package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
	AdminTokenTTL   = 365 * 24 * time.Hour

	MinSecretLength = 32

	RoleAdmin = "admin"
)

// ErrInvalidToken is returned for every verification failure. Expired and
// forged tokens are indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	jwtlib.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func GenerateToken(userID, role string, emailVerified bool, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:        userID,
		Role:          role,
		EmailVerified: emailVerified,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(token *jwtlib.Token) (interface{}, error) {
		if token.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwtlib.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Issuer signs access/refresh pairs and admin tokens with one shared secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	adminTTL   time.Duration
}

func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	}
	return &Issuer{
		secret:     secret,
		accessTTL:  AccessTokenTTL,
		refreshTTL: RefreshTokenTTL,
		adminTTL:   AdminTokenTTL,
	}, nil
}

func (i *Issuer) IssuePair(userID, role string, emailVerified bool) (TokenPair, error) {
	access, err := GenerateToken(userID, role, emailVerified, i.secret, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateToken(userID, role, emailVerified, i.secret, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) IssueAccess(userID, role string, emailVerified bool) (string, error) {
	return GenerateToken(userID, role, emailVerified, i.secret, i.accessTTL)
}

func (i *Issuer) IssueAdmin(username string) (string, error) {
	return GenerateToken(username, RoleAdmin, true, i.secret, i.adminTTL)
}

func (i *Issuer) Parse(token string) (*Claims, error) {
	return ParseToken(token, i.secret)
}

func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}
