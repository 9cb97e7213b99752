package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures talking to Redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

// DefaultPrefix is the key namespace used when NewStore gets an empty prefix.
const DefaultPrefix = "gl"

const clearRecordScript = `
local existed = redis.call("EXISTS", KEYS[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
  redis.call("INCR", KEYS[2])
end
return existed
`

var clearRecordLua = redis.NewScript(clearRecordScript)

// Store persists one client's token [Record] in Redis.
//
// All methods are safe for concurrent use.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a Store on client. prefix namespaces the keys, so several
// clients can share one Redis.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) recordKey() string {
	return s.prefix + ":tokens"
}

func (s *Store) logoutCountKey() string {
	return s.prefix + ":logouts"
}

// Save stores rec. A ttl of zero keeps the record until Logout; once the key
// expires the monitor sees both expirations as absent.
func (s *Store) Save(ctx context.Context, rec *Record, ttl time.Duration) error {
	if rec.SavedAt == 0 {
		rec.SavedAt = time.Now().Unix()
	}
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.recordKey(), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Load returns the stored record, or (nil, nil) when none is stored.
func (s *Store) Load(ctx context.Context) (*Record, error) {
	data, err := s.redis.Get(ctx, s.recordKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return Decode(data)
}

// AccessTokenExpiration implements the monitor's token source.
func (s *Store) AccessTokenExpiration(ctx context.Context) (time.Time, bool, error) {
	rec, err := s.Load(ctx)
	if err != nil || rec == nil {
		return time.Time{}, false, err
	}
	exp, ok := rec.AccessExpiration()
	return exp, ok, nil
}

// RefreshTokenExpiration implements the monitor's token source.
func (s *Store) RefreshTokenExpiration(ctx context.Context) (time.Time, bool, error) {
	rec, err := s.Load(ctx)
	if err != nil || rec == nil {
		return time.Time{}, false, err
	}
	exp, ok := rec.RefreshExpiration()
	return exp, ok, nil
}

// Clear deletes the record and reports whether one existed.
func (s *Store) Clear(ctx context.Context) (bool, error) {
	existed, err := clearRecordLua.Run(ctx, s.redis, []string{s.recordKey(), s.logoutCountKey()}).Int()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return existed == 1, nil
}

// Logout clears the stored tokens. Calling it with nothing stored succeeds.
func (s *Store) Logout(ctx context.Context) error {
	_, err := s.Clear(ctx)
	return err
}

// LogoutCount returns how many times a stored record was cleared.
func (s *Store) LogoutCount(ctx context.Context) (int64, error) {
	n, err := s.redis.Get(ctx, s.logoutCountKey()).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n, nil
}
