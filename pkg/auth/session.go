// Package auth resolves the signed-in user from a session cookie.
//
// The session cookie only carries an encrypted session ID; the values live in
// Redis. Keys must be 32 or 64 bytes (HMAC) and 16, 24 or 32 bytes (AES):
//
//	openssl rand -base64 32
package auth

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "auctionhouse:session:"

// DefaultSessionMaxAge applies when NewSessionStore is given a non-positive max age.
const DefaultSessionMaxAge = 7 * 24 * time.Hour

// RedisStore is a sessions.Store that keeps session values in Redis under
// "auctionhouse:session:<id>" with a TTL equal to the cookie MaxAge.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options *sessions.Options
}

// NewSessionStore builds a RedisStore. secureCookie should be true whenever
// the API is served over HTTPS.
//
//	store := auth.NewSessionStore(
//	    app.Redis.Client(),
//	    []byte(cfg.SessionAuthKey),
//	    []byte(cfg.SessionEncryptionKey),
//	    cfg.SessionMaxAge,
//	    cfg.Environment == config.EnvProduction,
//	)
func NewSessionStore(client *redis.Client, authKey, encryptionKey []byte, maxAge time.Duration, secureCookie bool) *RedisStore {
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(maxAge / time.Second),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the cached session for the request, loading it on first use.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New never fails on a bad cookie. A missing, tampered or expired cookie, or
// a session whose Redis key is gone, yields a fresh session with IsNew set.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	id, ok := s.decodeCookie(r, name)
	if !ok {
		return session, nil
	}

	session.ID = id
	if err := s.load(r.Context(), session); err != nil {
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session to Redis and sets the cookie. A negative MaxAge
// deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" && s.client != nil {
			_ = s.client.Del(r.Context(), sessionKey(session.ID)).Err()
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}

	if err := s.save(r.Context(), session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) decodeCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return "", false
	}
	return id, id != ""
}

func (s *RedisStore) save(ctx context.Context, session *sessions.Session) error {
	data, err := encodeValues(session.Values)
	if err != nil {
		return err
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, session *sessions.Session) error {
	data, err := s.client.Get(ctx, sessionKey(session.ID)).Bytes()
	if err != nil {
		return fmt.Errorf("get session from redis: %w", err)
	}
	return decodeValues(data, &session.Values)
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}

func encodeValues(values map[interface{}]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(values); err != nil {
		return nil, fmt.Errorf("encode session values: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeValues(data []byte, values *map[interface{}]interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(values); err != nil {
		return fmt.Errorf("decode session values: %w", err)
	}
	return nil
}
