package callback

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/golang-jwt/jwt/v4"
)

const (
	Issuer   = "content-engine"
	Audience = "engine-callback"

	// Path is where the engine reports workflow completion.
	Path = "/api/webhook/callback"
)

var ErrInvalidToken = errors.New("invalid callback token")

// Signer issues and verifies HS256 tokens that bind a callback to one workflow.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// compile-time check: *Signer must satisfy port.CallbackURLBuilder
var _ port.CallbackURLBuilder = (*Signer)(nil)

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})),
	}
}

func (s *Signer) Sign(workflowID db.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   workflowID.String(),
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, issuer, audience and expiry and returns the workflow the token was issued for.
func (s *Signer) Verify(raw string) (db.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := s.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return db.UUID{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.VerifyIssuer(Issuer, true) {
		return db.UUID{}, fmt.Errorf("%w: bad issuer", ErrInvalidToken)
	}
	if !claims.VerifyAudience(Audience, true) {
		return db.UUID{}, fmt.Errorf("%w: bad audience", ErrInvalidToken)
	}
	if !claims.VerifyExpiresAt(s.now(), true) {
		return db.UUID{}, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}
	id, err := db.ParseUUID(claims.Subject)
	if err != nil {
		return db.UUID{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

// CallbackURL returns baseURL + Path with a token for workflowID in the query string.
func (s *Signer) CallbackURL(baseURL string, workflowID db.UUID) (string, error) {
	tok, err := s.Sign(workflowID)
	if err != nil {
		return "", fmt.Errorf("sign callback token: %w", err)
	}
	return strings.TrimRight(baseURL, "/") + Path + "?token=" + url.QueryEscape(tok), nil
}

// PlainURLBuilder is used when no callback secret is configured.
type PlainURLBuilder struct{}

// compile-time check: PlainURLBuilder must satisfy port.CallbackURLBuilder
var _ port.CallbackURLBuilder = PlainURLBuilder{}

func (PlainURLBuilder) CallbackURL(baseURL string, _ db.UUID) (string, error) {
	return strings.TrimRight(baseURL, "/") + Path, nil
}
