package keys

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	DefaultKeyringService = "aicode"
	keyringUser           = "api-token"
)

// KeyringStore keeps the token in the system keyring.
type KeyringStore struct {
	Service string
}

func (s *KeyringStore) Get() (string, error) {
	val, err := keyring.Get(s.service(), keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return val, nil
}

func (s *KeyringStore) Set(token string) error {
	return keyring.Set(s.service(), keyringUser, token)
}

func (s *KeyringStore) Clear() error {
	err := keyring.Delete(s.service(), keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (s *KeyringStore) service() string {
	if s != nil && s.Service != "" {
		return s.Service
	}
	return DefaultKeyringService
}

// KeyringAvailable reports whether a system keyring backend appears supported.
func KeyringAvailable() bool {
	_, err := keyring.Get(DefaultKeyringService, "_probe_")
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return true
	}
	return !errors.Is(err, keyring.ErrUnsupportedPlatform)
}
