package jwt

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrEmptyToken is returned for an empty token string.
	ErrEmptyToken = errors.New("empty token")
	// ErrIssuerMismatch is returned when a verified token has the wrong issuer.
	ErrIssuerMismatch = errors.New("token issuer mismatch")
	// ErrAudienceMismatch is returned when a verified token lacks the audience.
	ErrAudienceMismatch = errors.New("token audience mismatch")
)

// ReaderConfig configures a [Reader].
//
// With SigningMethod MethodNone tokens are decoded without verification and
// the key fields must be empty.
type ReaderConfig struct {
	SigningMethod SigningMethod
	Secret        []byte // hs256
	PublicKey     []byte // ed25519, raw or PEM
	VerifyKeys    map[string][]byte
	Issuer        string
	Audience      string
}

// Reader extracts claims from tokens without enforcing exp.
type Reader struct {
	config ReaderConfig
}

// Claims is the subset of token claims the liveness stack uses.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	HasExpiry bool
}

// NewReader validates cfg and returns a Reader.
func NewReader(cfg ReaderConfig) (*Reader, error) {
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)
	cfg.Audience = strings.TrimSpace(cfg.Audience)

	switch cfg.SigningMethod {
	case MethodNone:
		if len(cfg.Secret) > 0 || len(cfg.PublicKey) > 0 || len(cfg.VerifyKeys) > 0 {
			return nil, errors.New("keys configured without a signing method")
		}
	case MethodHS256:
		if len(cfg.Secret) == 0 && len(cfg.VerifyKeys) == 0 {
			return nil, errors.New("hs256 requires secret or verify key set")
		}
	case MethodEd25519:
		if len(cfg.PublicKey) == 0 && len(cfg.VerifyKeys) == 0 {
			return nil, errors.New("ed25519 requires public key or verify key set")
		}
		if len(cfg.PublicKey) > 0 {
			if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
				return nil, err
			}
		}
		for kid, key := range cfg.VerifyKeys {
			if _, err := parseEdPublicKey(key); err != nil {
				return nil, fmt.Errorf("invalid ed25519 verify key for kid %q: %w", kid, err)
			}
		}
	default:
		return nil, errors.New("unsupported signing method")
	}
	for kid := range cfg.VerifyKeys {
		if strings.TrimSpace(kid) == "" {
			return nil, errors.New("verify key map contains empty kid")
		}
	}

	return &Reader{config: cfg}, nil
}

// Verifies reports whether the reader checks signatures.
func (r *Reader) Verifies() bool {
	return r.config.SigningMethod != MethodNone
}

// Inspect decodes token and returns its claims. Expired tokens are not an
// error.
func (r *Reader) Inspect(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}

	registered := &jwt.RegisteredClaims{}
	if r.Verifies() {
		if err := r.parseVerified(token, registered); err != nil {
			return nil, err
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, registered); err != nil {
			return nil, err
		}
	}

	out := &Claims{Subject: registered.Subject}
	if registered.IssuedAt != nil {
		out.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		out.ExpiresAt = registered.ExpiresAt.Time
		out.HasExpiry = true
	}
	return out, nil
}

// ExpiresAt returns the exp claim of token. ok is false when the token has no
// exp claim.
func (r *Reader) ExpiresAt(token string) (exp time.Time, ok bool, err error) {
	claims, err := r.Inspect(token)
	if err != nil {
		return time.Time{}, false, err
	}
	return claims.ExpiresAt, claims.HasExpiry, nil
}

func (r *Reader) parseVerified(token string, claims *jwt.RegisteredClaims) error {
	method := r.config.SigningMethod.jwtMethod()
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		// exp is evaluated by the monitor, not here
		jwt.WithoutClaimsValidation(),
	)

	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}

		if len(r.config.VerifyKeys) > 0 {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errors.New("missing kid")
			}
			key, ok := r.config.VerifyKeys[kid]
			if !ok {
				return nil, errors.New("unknown kid")
			}
			return r.verifyKey(key)
		}

		if r.config.SigningMethod == MethodHS256 {
			return r.config.Secret, nil
		}
		return r.verifyKey(r.config.PublicKey)
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return jwt.ErrTokenInvalidClaims
	}

	if r.config.Issuer != "" && claims.Issuer != r.config.Issuer {
		return ErrIssuerMismatch
	}
	if r.config.Audience != "" && !slices.Contains(claims.Audience, r.config.Audience) {
		return ErrAudienceMismatch
	}
	return nil
}

func (r *Reader) verifyKey(key []byte) (interface{}, error) {
	if r.config.SigningMethod == MethodHS256 {
		return key, nil
	}
	return parseEdPublicKey(key)
}
