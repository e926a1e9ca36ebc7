package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidChoice is returned for any choice token that fails verification.
var ErrInvalidChoice = errors.New("invalid choice token")

const choiceVersion = 1

// ChoiceClaims is the payload of a button token.
type ChoiceClaims struct {
	Version   int    `json:"v"`
	Action    string `json:"act"`
	SessionID string `json:"sid,omitempty"`
	OwnerID   string `json:"own"`
	jwt.RegisteredClaims
}

// ChoiceSigner signs and verifies the tokens carried by reply buttons.
type ChoiceSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewChoiceSigner creates a signer whose tokens live for ttl.
func NewChoiceSigner(key []byte, ttl time.Duration) *ChoiceSigner {
	return &ChoiceSigner{key: key, ttl: ttl, now: time.Now}
}

// Sign issues a token for action, bound to ownerID and optionally to a session.
func (s *ChoiceSigner) Sign(ownerID, action, sessionID string) (string, error) {
	now := s.now()
	claims := &ChoiceClaims{
		Version:   choiceVersion,
		Action:    action,
		SessionID: sessionID,
		OwnerID:   ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign choice: %w", err)
	}
	return token, nil
}

// Verify checks the signature, version, expiry and that the token was issued
// to ownerID.
func (s *ChoiceSigner) Verify(tokenString, ownerID string) (*ChoiceClaims, error) {
	claims := &ChoiceClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChoice, err)
	}

	switch {
	case claims.Version != choiceVersion:
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidChoice, claims.Version)
	case claims.OwnerID != ownerID:
		return nil, fmt.Errorf("%w: owner mismatch", ErrInvalidChoice)
	case claims.Action == "":
		return nil, fmt.Errorf("%w: missing action", ErrInvalidChoice)
	}
	return claims, nil
}
