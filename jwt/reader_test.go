package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	return pub, priv
}

func newEdSigner(t *testing.T, priv ed25519.PrivateKey, kid string) *Signer {
	t.Helper()
	s, err := NewSigner(SignerConfig{
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		KeyID:         kid,
		Issuer:        "auth",
		Audience:      "web",
	})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return s
}

func TestExpiresAtUnverified(t *testing.T) {
	_, priv := newEdKeys(t)
	token, err := newEdSigner(t, priv, "").Sign("u1", testNow, 5*time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r, err := NewReader(ReaderConfig{})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	if r.Verifies() {
		t.Fatal("expected unverified reader")
	}

	exp, ok, err := r.ExpiresAt(token)
	if err != nil {
		t.Fatalf("expires at: %v", err)
	}
	if !ok || !exp.Equal(testNow.Add(5*time.Minute)) {
		t.Fatalf("unexpected exp %v ok=%v", exp, ok)
	}
}

func TestExpiresAtReturnsExpiredTokens(t *testing.T) {
	pub, priv := newEdKeys(t)
	issued := time.Now().Add(-time.Hour)
	token, err := newEdSigner(t, priv, "").Sign("u1", issued, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r, err := NewReader(ReaderConfig{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	exp, ok, err := r.ExpiresAt(token)
	if err != nil {
		t.Fatalf("expired token must still be readable: %v", err)
	}
	if !ok || !exp.Equal(issued.Add(time.Minute).Truncate(time.Second)) {
		t.Fatalf("unexpected exp %v ok=%v", exp, ok)
	}
}

func TestExpiresAtWithoutExpClaim(t *testing.T) {
	s, err := NewSigner(SignerConfig{SigningMethod: MethodHS256, Secret: []byte("secret-secret-secret-secret")})
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	token, err := s.Sign("u1", testNow, 0)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r, err := NewReader(ReaderConfig{SigningMethod: MethodHS256, Secret: []byte("secret-secret-secret-secret")})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	_, ok, err := r.ExpiresAt(token)
	if err != nil {
		t.Fatalf("expires at: %v", err)
	}
	if ok {
		t.Fatal("expected no exp claim")
	}
}

func TestReaderRejectsWrongAlgorithm(t *testing.T) {
	pub, _ := newEdKeys(t)
	r, err := NewReader(ReaderConfig{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	claims := gjwt.RegisteredClaims{ExpiresAt: gjwt.NewNumericDate(testNow.Add(time.Minute))}
	token, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString([]byte("secret-secret-secret-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, _, err := r.ExpiresAt(token); err == nil {
		t.Fatal("expected wrong algorithm to be rejected")
	}
}

func TestReaderRejectsForeignKey(t *testing.T) {
	pub, _ := newEdKeys(t)
	_, otherPriv := newEdKeys(t)
	token, err := newEdSigner(t, otherPriv, "").Sign("u1", testNow, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r, err := NewReader(ReaderConfig{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	if _, _, err := r.ExpiresAt(token); !errors.Is(err, gjwt.ErrTokenSignatureInvalid) {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestReaderIssuerAndAudience(t *testing.T) {
	_, priv := newEdKeys(t)
	s := newEdSigner(t, priv, "")
	token, err := s.Sign("u1", testNow, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ok, err := NewReader(ReaderConfig{SigningMethod: MethodEd25519, PublicKey: s.PublicKey(), Issuer: "auth", Audience: "web"})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	if _, _, err := ok.ExpiresAt(token); err != nil {
		t.Fatalf("expected token to verify: %v", err)
	}

	wrongIss, _ := NewReader(ReaderConfig{SigningMethod: MethodEd25519, PublicKey: s.PublicKey(), Issuer: "other"})
	if _, _, err := wrongIss.ExpiresAt(token); !errors.Is(err, ErrIssuerMismatch) {
		t.Fatalf("expected issuer mismatch, got %v", err)
	}

	wrongAud, _ := NewReader(ReaderConfig{SigningMethod: MethodEd25519, PublicKey: s.PublicKey(), Audience: "mobile"})
	if _, _, err := wrongAud.ExpiresAt(token); !errors.Is(err, ErrAudienceMismatch) {
		t.Fatalf("expected audience mismatch, got %v", err)
	}
}

func TestReaderVerifyKeysByKid(t *testing.T) {
	pub1, priv1 := newEdKeys(t)
	pub2, priv2 := newEdKeys(t)

	r, err := NewReader(ReaderConfig{
		SigningMethod: MethodEd25519,
		VerifyKeys:    map[string][]byte{"k1": pub1, "k2": pub2},
	})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	for _, tc := range []struct {
		kid  string
		priv ed25519.PrivateKey
	}{{"k1", priv1}, {"k2", priv2}} {
		token, err := newEdSigner(t, tc.priv, tc.kid).Sign("u1", testNow, time.Minute)
		if err != nil {
			t.Fatalf("sign %s: %v", tc.kid, err)
		}
		if _, _, err := r.ExpiresAt(token); err != nil {
			t.Fatalf("kid %s: %v", tc.kid, err)
		}
	}

	token, err := newEdSigner(t, priv1, "").Sign("u1", testNow, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, _, err := r.ExpiresAt(token); err == nil {
		t.Fatal("expected missing kid to be rejected")
	}
}

func TestNewReaderValidation(t *testing.T) {
	pub, _ := newEdKeys(t)
	cases := []ReaderConfig{
		{PublicKey: pub},
		{SigningMethod: MethodHS256},
		{SigningMethod: MethodEd25519},
		{SigningMethod: MethodEd25519, PublicKey: []byte("short")},
		{SigningMethod: MethodEd25519, VerifyKeys: map[string][]byte{" ": pub}},
		{SigningMethod: "rs256"},
	}
	for i, cfg := range cases {
		if _, err := NewReader(cfg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	r, err := NewReader(ReaderConfig{})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	if _, err := r.Inspect("  "); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
	if _, err := r.Inspect("not-a-jwt"); err == nil {
		t.Fatal("expected malformed token error")
	}
}

func TestInspectSubject(t *testing.T) {
	_, priv := newEdKeys(t)
	token, err := newEdSigner(t, priv, "").Sign("user-42", testNow, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	r, _ := NewReader(ReaderConfig{})
	claims, err := r.Inspect(token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if claims.Subject != "user-42" || !claims.IssuedAt.Equal(testNow) {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func FuzzInspect(f *testing.F) {
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJIUzI1NiJ9.e30.")
	r, err := NewReader(ReaderConfig{})
	if err != nil {
		f.Fatalf("new reader: %v", err)
	}
	f.Fuzz(func(t *testing.T, token string) {
		_, _ = r.Inspect(token)
	})
}
