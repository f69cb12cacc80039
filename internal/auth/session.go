package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// Principal is the authenticated identity extracted from a Clerk session
// token. It is passed explicitly into services, never read from ambient
// state, so the resolver stays testable without a live session.
type Principal struct {
	ClerkUserID string
	Email       *string
	FirstName   *string
	LastName    *string
	Username    *string
	ImageURL    *string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email      *string `json:"email,omitempty"`
	GivenName  *string `json:"given_name,omitempty"`
	FamilyName *string `json:"family_name,omitempty"`
	Nickname   *string `json:"nickname,omitempty"`
	Picture    *string `json:"picture,omitempty"`
}

// Verifier validates Clerk session tokens and extracts the principal.
type Verifier struct {
	key    []byte
	issuer string
}

// NewVerifier returns a Verifier for the given signing key. If issuer is
// non-empty, tokens must carry it in the iss claim.
func NewVerifier(key []byte, issuer string) *Verifier {
	return &Verifier{key: key, issuer: issuer}
}

// Verify parses and validates a session token and returns the principal.
func (v *Verifier) Verify(token string) (Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	return Principal{
		ClerkUserID: claims.Subject,
		Email:       claims.Email,
		FirstName:   claims.GivenName,
		LastName:    claims.FamilyName,
		Username:    claims.Nickname,
		ImageURL:    claims.Picture,
	}, nil
}
