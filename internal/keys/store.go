// Package keys stores the analysis service token.
package keys

import (
	"errors"
	"strings"
)

// TokenStore provides access to the service token.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

var ErrKeyNotFound = errors.New("token not found")

// ConfigStore keeps the token in config-managed storage. Persist, when set,
// is called with the new value ("" on Clear) so callers can write it back
// to the config file.
type ConfigStore struct {
	Token   string
	Persist func(token string) error
}

func (s *ConfigStore) Get() (string, error) {
	if s == nil || strings.TrimSpace(s.Token) == "" {
		return "", ErrKeyNotFound
	}
	return strings.TrimSpace(s.Token), nil
}

func (s *ConfigStore) Set(token string) error {
	s.Token = token
	if s.Persist != nil {
		return s.Persist(token)
	}
	return nil
}

func (s *ConfigStore) Clear() error {
	if s == nil {
		return nil
	}
	return s.Set("")
}

// Lookup returns the stored token or "" when none is stored.
func Lookup(s TokenStore) (string, error) {
	if s == nil {
		return "", nil
	}
	tok, err := s.Get()
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return tok, err
}
