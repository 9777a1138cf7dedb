package wire

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/aicode/internal/client"
	"github.com/mithrel/aicode/internal/clipboard"
	"github.com/mithrel/aicode/internal/config"
	"github.com/mithrel/aicode/internal/db"
	"github.com/mithrel/aicode/internal/keys"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg       *viper.Viper
	Log       *log.Logger
	Client    *client.Client
	Store     db.Store
	Closer    io.Closer
	Clipboard clipboard.Copier
	Tokens    keys.TokenStore
}

// Close releases the history store.
func (a *App) Close() error {
	if a == nil || a.Closer == nil {
		return nil
	}
	return a.Closer.Close()
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger := log.New(os.Stderr, "aicode ", log.LstdFlags)

	tokens := TokenStore(v)
	timeout := config.Duration(v, "service.timeout", 60*time.Second)
	cl := client.New(v.GetString("service.base_url"), "", timeout)
	// Resolved on the first request so history commands never touch the keyring.
	cl.TokenFunc = func() string {
		token, err := keys.Lookup(tokens)
		if err != nil {
			// An unreachable keyring should not block anonymous use.
			logger.Printf("auth: token lookup failed provider=%s: %v", v.GetString("auth.provider"), err)
			return ""
		}
		return token
	}

	dsn := "mem://"
	if v.GetBool("history.enabled") {
		dsn = "sqlite://" + config.ResolveDBPath(v)
	}
	store, closer, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	return &App{
		Cfg:       v,
		Log:       logger,
		Client:    cl,
		Store:     store,
		Closer:    closer,
		Clipboard: clipboard.System{},
		Tokens:    tokens,
	}, nil
}

// TokenStore returns the store selected by auth.provider. The config provider
// writes through to the active config file.
func TokenStore(v *viper.Viper) keys.TokenStore {
	if v.GetString("auth.provider") == "keyring" {
		return &keys.KeyringStore{}
	}
	path := v.ConfigFileUsed()
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return &keys.ConfigStore{
		Token: v.GetString("auth.token"),
		Persist: func(token string) error {
			if err := config.PersistSectionKey(path, "auth", "token", token); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			v.Set("auth.token", token)
			return nil
		},
	}
}
