package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/aicode/internal/keys"
	"github.com/mithrel/aicode/internal/wire"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the analysis service token",
	}
	cmd.AddCommand(newAuthSetTokenCmd())
	cmd.AddCommand(newAuthClearTokenCmd())
	cmd.AddCommand(newAuthStatusCmd())
	return cmd
}

func newAuthSetTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "set-token [token]",
		Short:       "Store the service token (prompts when omitted)",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipWiring: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				var err error
				if token, err = readToken(cmd); err != nil {
					return err
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("empty token")
			}
			if err := wire.TokenStore(app.Cfg).Set(token); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Token stored (provider=%s)\n", app.Cfg.GetString("auth.provider"))
			return nil
		},
	}
}

func newAuthClearTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "clear-token",
		Short:       "Remove the stored service token",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipWiring: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := wire.TokenStore(app.Cfg).Clear(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token cleared")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "status",
		Short:       "Report where the token lives and whether one is set",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipWiring: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			provider := app.Cfg.GetString("auth.provider")
			if provider == "keyring" && !keys.KeyringAvailable() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "provider=keyring token=unavailable (no keyring backend)")
				return nil
			}
			tok, err := keys.Lookup(wire.TokenStore(app.Cfg))
			if err != nil {
				return err
			}
			state := "unset"
			if tok != "" {
				state = "set"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "provider=%s token=%s\n", provider, state)
			return nil
		},
	}
}

// readToken prompts without echo on a terminal, otherwise reads stdin.
func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
