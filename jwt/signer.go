package jwt

import (
	"crypto/ed25519"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignerConfig configures a [Signer].
type SignerConfig struct {
	SigningMethod SigningMethod
	Secret        []byte // hs256
	PrivateKey    []byte // ed25519, raw or PEM
	KeyID         string
	Issuer        string
	Audience      string
}

// Signer issues tokens. It exists for tests and local seeding; production
// tokens come from the auth server.
type Signer struct {
	config  SignerConfig
	method  jwt.SigningMethod
	signKey interface{}
}

// NewSigner validates cfg and returns a Signer.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	s := &Signer{config: cfg}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Secret) == 0 {
			return nil, errors.New("hs256 requires secret")
		}
		s.signKey = cfg.Secret
	case MethodEd25519:
		key, err := parseEdPrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		s.signKey = key
	default:
		return nil, errors.New("unsupported signing method")
	}
	s.method = cfg.SigningMethod.jwtMethod()
	return s, nil
}

// PublicKey returns the Ed25519 verification key, or nil for hs256.
func (s *Signer) PublicKey() ed25519.PublicKey {
	key, ok := s.signKey.(ed25519.PrivateKey)
	if !ok {
		return nil
	}
	return key.Public().(ed25519.PublicKey)
}

// Sign issues a token for subject. A ttl of zero or less omits the exp
// claim.
func (s *Signer) Sign(subject string, now time.Time, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("subject is required")
	}

	claims := jwt.RegisteredClaims{
		ID:       uuid.NewString(),
		Subject:  subject,
		Issuer:   s.config.Issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.config.Audience}
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(s.method, claims)
	if s.config.KeyID != "" {
		token.Header["kid"] = s.config.KeyID
	}
	return token.SignedString(s.signKey)
}
