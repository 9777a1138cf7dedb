package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestConfigStore(t *testing.T) {
	var persisted []string
	s := &ConfigStore{Persist: func(tok string) error {
		persisted = append(persisted, tok)
		return nil
	}}

	_, err := s.Get()
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set("abc"))
	tok, err := s.Get()
	require.NoError(t, err)
	require.Equal(t, "abc", tok)

	require.NoError(t, s.Clear())
	_, err = s.Get()
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.Equal(t, []string{"abc", ""}, persisted)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	s := &KeyringStore{Service: "aicode-test"}

	_, err := s.Get()
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set("tok"))
	got, err := Lookup(s)
	require.NoError(t, err)
	require.Equal(t, "tok", got)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	got, err = Lookup(s)
	require.NoError(t, err)
	require.Empty(t, got)
}
