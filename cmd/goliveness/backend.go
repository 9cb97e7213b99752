package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	goLiveness "github.com/MrEthical07/goLiveness"
	"github.com/MrEthical07/goLiveness/jwt"
	"github.com/MrEthical07/goLiveness/tokenstore"
	"github.com/MrEthical07/goLiveness/tokenstore/sqlite"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backend is the token store the monitor reads from and logs out of.
type backend struct {
	tokens  goLiveness.TokenSource
	clearer goLiveness.SessionClearer
	save    func(context.Context, *tokenstore.Record) error
	close   func()
}

func openBackend(ctx context.Context, o options, lg *zap.Logger) (*backend, error) {
	if o.Backend == backendSQLite {
		store, err := sqlite.Open(ctx, o.SQLitePath)
		if err != nil {
			return nil, err
		}
		lg.Info("using sqlite token store", zap.String("path", o.SQLitePath))
		return &backend{
			tokens:  store,
			clearer: store,
			save:    store.Save,
			close:   func() { _ = store.Close() },
		}, nil
	}

	var (
		client  redis.UniversalClient
		cleanup func()
	)
	addr := o.RedisAddr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start miniredis: %w", err)
		}
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		lg.Info("using miniredis token store", zap.String("addr", mr.Addr()))
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		if err := client.Ping(ctx).Err(); err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: %v", tokenstore.ErrRedisUnavailable, err)
		}
		lg.Info("using redis token store", zap.String("addr", addr))
	}

	store := tokenstore.NewStore(client, o.Prefix)
	return &backend{
		tokens:  store,
		clearer: store,
		save: func(ctx context.Context, rec *tokenstore.Record) error {
			return store.Save(ctx, rec, 0)
		},
		close: cleanup,
	}, nil
}

// newTokenReader verifies signatures only when a shared secret is known.
func newTokenReader(o options) (*jwt.Reader, error) {
	if o.JWTSecret == "" {
		return jwt.NewReader(jwt.ReaderConfig{})
	}
	return jwt.NewReader(jwt.ReaderConfig{
		SigningMethod: jwt.MethodHS256,
		Secret:        []byte(o.JWTSecret),
	})
}

// seedTokens stores freshly signed tokens so the monitor has something to
// watch. A zero ttl leaves that token out.
func seedTokens(ctx context.Context, b *backend, reader *jwt.Reader, o options, now time.Time) (*tokenstore.Record, error) {
	secret := []byte(o.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	signer, err := jwt.NewSigner(jwt.SignerConfig{SigningMethod: jwt.MethodHS256, Secret: secret})
	if err != nil {
		return nil, err
	}

	sign := func(ttl time.Duration) (string, error) {
		if ttl <= 0 {
			return "", nil
		}
		return signer.Sign(o.SeedSubject, now, ttl)
	}
	access, err := sign(o.SeedAccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := sign(o.SeedRefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	rec, err := tokenstore.NewRecord(reader, o.SeedSubject, access, refresh)
	if err != nil {
		return nil, err
	}
	rec.SavedAt = now.Unix()
	if err := b.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
