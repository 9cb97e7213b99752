package tokenstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

const recordVersionCurrent = 1

// ErrRecordCorrupt is returned when a stored record cannot be decoded.
var ErrRecordCorrupt = errors.New("token record corrupt")

// Record is the persisted token pair of the signed-in client.
//
// Expirations are unix seconds; zero means the token carries no expiry.
type Record struct {
	Version          uint8  `cbor:"1,keyasint"`
	Subject          string `cbor:"2,keyasint,omitempty"`
	AccessToken      string `cbor:"3,keyasint,omitempty"`
	RefreshToken     string `cbor:"4,keyasint,omitempty"`
	AccessExpiresAt  int64  `cbor:"5,keyasint,omitempty"`
	RefreshExpiresAt int64  `cbor:"6,keyasint,omitempty"`
	SavedAt          int64  `cbor:"7,keyasint,omitempty"`
}

// ExpiryReader extracts the exp claim of a token. *jwt.Reader satisfies it.
type ExpiryReader interface {
	ExpiresAt(token string) (time.Time, bool, error)
}

// NewRecord builds a record for subject, deriving expirations from the
// tokens. An empty token leaves its expiration absent.
func NewRecord(reader ExpiryReader, subject, accessToken, refreshToken string) (*Record, error) {
	rec := &Record{
		Version:      recordVersionCurrent,
		Subject:      subject,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	var err error
	if rec.AccessExpiresAt, err = expiryUnix(reader, accessToken); err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}
	if rec.RefreshExpiresAt, err = expiryUnix(reader, refreshToken); err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return rec, nil
}

func expiryUnix(reader ExpiryReader, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	exp, ok, err := reader.ExpiresAt(token)
	if err != nil || !ok {
		return 0, err
	}
	return exp.Unix(), nil
}

// AccessExpiration returns the access expiry; ok is false when absent.
func (r *Record) AccessExpiration() (time.Time, bool) {
	return unixInstant(r.AccessExpiresAt)
}

// RefreshExpiration returns the refresh expiry; ok is false when absent.
func (r *Record) RefreshExpiration() (time.Time, bool) {
	return unixInstant(r.RefreshExpiresAt)
}

func unixInstant(sec int64) (time.Time, bool) {
	if sec == 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Encode serializes r as deterministic CBOR.
func Encode(r *Record) ([]byte, error) {
	if r == nil {
		return nil, errors.New("nil record")
	}
	out := *r
	if out.Version == 0 {
		out.Version = recordVersionCurrent
	}
	return encMode.Marshal(&out)
}

// Decode parses a record produced by [Encode].
func Decode(data []byte) (*Record, error) {
	var r Record
	if err := decMode.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordCorrupt, err)
	}
	if r.Version != recordVersionCurrent {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrRecordCorrupt, r.Version)
	}
	return &r, nil
}
