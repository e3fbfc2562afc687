package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
)

var (
	testAuthKey = []byte("test-auth-key-must-be-32-bytes!!")
	testEncKey  = []byte("test-enc-key-must-be-32-bytes!!!")
)

func TestNewSessionStore_DefaultMaxAge(t *testing.T) {
	store := NewSessionStore(nil, testAuthKey, testEncKey, 0, false)
	if got := store.options.MaxAge; got != int(DefaultSessionMaxAge/time.Second) {
		t.Fatalf("expected default max age, got %d", got)
	}

	store = NewSessionStore(nil, testAuthKey, testEncKey, time.Hour, true)
	if store.options.MaxAge != 3600 || !store.options.Secure {
		t.Fatalf("unexpected options: %+v", store.options)
	}
}

func TestRedisStore_New_NoCookie(t *testing.T) {
	store := NewSessionStore(nil, testAuthKey, testEncKey, time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/api/me/statistics", nil)

	session, err := store.New(r, SessionName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.IsNew || session.ID != "" {
		t.Fatalf("expected fresh session, got IsNew=%v ID=%q", session.IsNew, session.ID)
	}
}

func TestRedisStore_New_TamperedCookie(t *testing.T) {
	store := NewSessionStore(nil, testAuthKey, testEncKey, time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/api/me/statistics", nil)
	r.AddCookie(&http.Cookie{Name: SessionName, Value: "garbage"})

	session, err := store.New(r, SessionName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.IsNew {
		t.Fatal("tampered cookie must yield a new session")
	}
}

func TestRedisStore_New_CookieFromOtherKeys(t *testing.T) {
	other := securecookie.CodecsFromPairs([]byte("another-auth-key-of-32-bytes!!!!"), testEncKey)
	encoded, err := securecookie.EncodeMulti(SessionName, "someid", other...)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	store := NewSessionStore(nil, testAuthKey, testEncKey, time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionName, Value: encoded})

	if _, ok := store.decodeCookie(r, SessionName); ok {
		t.Fatal("cookie signed with a different key must be rejected")
	}
}

func TestRedisStore_Save_DeleteClearsCookie(t *testing.T) {
	store := NewSessionStore(nil, testAuthKey, testEncKey, time.Hour, false)
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	session, _ := store.New(r, SessionName)
	session.Options.MaxAge = -1

	w := httptest.NewRecorder()
	if err := store.Save(r, w, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring empty cookie, got %+v", cookies)
	}
}

func TestSessionValues_RoundTrip(t *testing.T) {
	in := map[interface{}]interface{}{SessionUserIDKey: "7f3c9a52-1111-4a5b-9c0d-1234567890ab"}
	data, err := encodeValues(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	out := map[interface{}]interface{}{}
	if err := decodeValues(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out[SessionUserIDKey] != in[SessionUserIDKey] {
		t.Fatalf("expected %v, got %v", in[SessionUserIDKey], out[SessionUserIDKey])
	}

	if err := decodeValues([]byte("not gob"), &out); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSessionKeyAndID(t *testing.T) {
	id := newSessionID()
	if strings.Contains(id, "=") || len(id) < 50 {
		t.Fatalf("unexpected session id %q", id)
	}
	if id == newSessionID() {
		t.Fatal("session ids must be random")
	}
	if got := sessionKey("abc"); got != "auctionhouse:session:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}
