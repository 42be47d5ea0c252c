package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findStringFlag(t *testing.T, flags []cli.Flag, name string) *cli.StringFlag {
	t.Helper()
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	t.Fatalf("flag %q not found", name)
	return nil
}

func TestCommonFlags(t *testing.T) {
	flags := commonFlags()

	t.Run("db is required", func(t *testing.T) {
		dbFlag := findStringFlag(t, flags, "db")
		assert.True(t, dbFlag.Required)
		assert.Equal(t, []string{"d"}, dbFlag.Aliases)
	})

	t.Run("host has local default", func(t *testing.T) {
		hostFlag := findStringFlag(t, flags, "host")
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("api key reads the environment", func(t *testing.T) {
		keyFlag := findStringFlag(t, flags, "api-key")
		assert.Equal(t, []string{"PATTER_API_KEY"}, keyFlag.EnvVars)
		assert.False(t, keyFlag.Required)
	})

	t.Run("model defaults", func(t *testing.T) {
		assert.Equal(t, "text-embedding-3-small", findStringFlag(t, flags, "embedding-model").Value)
		assert.Equal(t, "gpt-4o-mini", findStringFlag(t, flags, "chat-model").Value)
		assert.Equal(t, "rerank-2", findStringFlag(t, flags, "rerank-model").Value)
	})
}

func TestIngestCommandRequiresFlags(t *testing.T) {
	app := &cli.App{
		Name: "patter",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "agent", Required: true},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
				),
			},
		},
	}

	err := app.Run([]string{"patter", "ingest", "--db", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent")
}

func TestSchemaCommandRejectsUnknownKind(t *testing.T) {
	app := &cli.App{
		Name: "patter",
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Action: schemaCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "agent", Required: true},
					&cli.StringFlag{Name: "kind", Value: "lead"},
					&cli.StringFlag{Name: "description", Required: true},
				),
			},
		},
	}

	err := app.Run([]string{"patter", "schema",
		"--db", t.TempDir(), "--agent", "a1", "--description", "collect a name", "--kind", "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema kind")
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			app := &cli.App{
				Name:   "patter",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}
			err := app.Run([]string{"patter", "--log-level", level})
			assert.NoError(t, err, "level %s", level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		app := &cli.App{
			Name:   "patter",
			Flags:  []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		err := app.Run([]string{"patter", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
