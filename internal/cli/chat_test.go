package cli

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/aicode/internal/wire"
)

func TestLogToFileRestoresLoggers(t *testing.T) {
	var global, local bytes.Buffer
	prevGlobal := log.Writer()
	log.SetOutput(&global)
	t.Cleanup(func() { log.SetOutput(prevGlobal) })

	path := filepath.Join(t.TempDir(), "logs", "aicode.log")
	v := viper.New()
	v.Set("log.file", path)
	app := &wire.App{Cfg: v, Log: log.New(&local, "", 0)}

	restore, err := logToFile(app)
	require.NoError(t, err)
	app.Log.Print("while tui")
	log.Print("global while tui")
	restore()

	app.Log.Print("after")
	log.Print("global after")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "while tui")
	require.Contains(t, string(data), "global while tui")
	require.NotContains(t, string(data), "after\n")
	require.Equal(t, "after\n", local.String())
	require.Contains(t, global.String(), "global after")
	require.Same(t, &global, log.Writer())
}
