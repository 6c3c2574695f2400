package session

import (
	"encoding/json"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/llmhomework/portal/core/user"
	"github.com/llmhomework/portal/storage/state"
)

var ErrNoUser = errors.New("no stored user")

// Session is a view over the persisted credentials. The presence of the token
// key is the sole authentication gate checked before any protected fetch.
type Session struct {
	store state.Store
}

func New(store state.Store) *Session {
	return &Session{store: store}
}

func (s *Session) Token() string {
	tok, _ := s.store.Get(state.KeyToken)
	return tok
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// User decodes the stored profile.
func (s *Session) User() (user.User, error) {
	raw, ok := s.store.Get(state.KeyUser)
	if !ok {
		return user.User{}, ErrNoUser
	}
	var usr user.User
	if err := json.Unmarshal([]byte(raw), &usr); err != nil {
		return user.User{}, errors.Wrap(err, "decoding stored user")
	}
	return usr, nil
}

// Role returns the stored user's type, or "" when no profile is stored.
func (s *Session) Role() string {
	usr, err := s.User()
	if err != nil {
		return ""
	}
	return usr.UserType
}

// Login stores the credentials issued by the upstream API.
func (s *Session) Login(token string, usr user.User) error {
	if err := s.store.Set(state.KeyToken, token); err != nil {
		return errors.Wrap(err, "storing token")
	}
	raw, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "encoding user")
	}
	return errors.Wrap(s.store.Set(state.KeyUser, string(raw)), "storing user")
}

// Logout clears all stored client state, like the original's localStorage.clear().
func (s *Session) Logout() error {
	return errors.Wrap(s.store.Clear(), "clearing state")
}

// Claims decodes the stored token's claims without verifying the signature;
// the secret lives upstream. Useful for expiry and role hints only; the API
// remains the authority.
func (s *Session) Claims() (jwt.MapClaims, error) {
	tok := s.Token()
	if tok == "" {
		return nil, errors.New("no stored token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tok, claims); err != nil {
		return nil, errors.Wrap(err, "parsing token")
	}
	return claims, nil
}
