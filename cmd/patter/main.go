// Copyright 2025 Patter AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/patter-ai/patter"
	"github.com/patter-ai/patter/ai"
	"github.com/patter-ai/patter/bot"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "patter",
		Usage:  "Retrieval-augmented conversational intake engine",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest a text file into an agent's retrievable corpus",
				Action: ingestCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "agent",
						Usage:    "Agent ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the text file to ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title (defaults to the file name)",
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Rechunk and reembed every document of an agent",
				Action: reindexCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "agent",
						Usage:    "Agent ID",
						Required: true,
					},
				),
			},
			{
				Name:   "chat",
				Usage:  "Talk to an agent interactively",
				Action: chatCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "agent",
						Usage:    "Agent ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "client",
						Usage: "Client identifier for the conversation",
						Value: "cli",
					},
				),
			},
			{
				Name:   "route",
				Usage:  "Route a qualified lead to the best-matching vendor",
				Action: routeCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "lead",
						Usage:    "Lead ID",
						Required: true,
					},
				),
			},
			{
				Name:   "schema",
				Usage:  "Generate an agent's intake schema from a free-text description",
				Action: schemaCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "agent",
						Usage:    "Agent ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Schema kind (lead or dynamic)",
						Value: "lead",
					},
					&cli.StringFlag{
						Name:     "description",
						Usage:    "Free-text description of the fields to collect",
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible API host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the embedding and chat host",
			EnvVars: []string{"PATTER_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat completion model name",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:    "rerank-api-key",
			Usage:   "Rerank provider API key (reranking disabled when empty)",
			EnvVars: []string{"PATTER_RERANK_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "rerank-model",
			Usage: "Rerank model name",
			Value: "rerank-2",
		},
	}
}

func openDatabase(c *cli.Context) (*patter.Database, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithRerank(c.String("rerank-api-key"), c.String("rerank-model")),
	)

	return patter.NewDatabase(c.String("db"), patter.WithAIConfig(config))
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	raw, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.String("file"), err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("creating ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	title := c.String("title")
	if title == "" {
		title = c.String("file")
	}

	doc, err := pipeline.IngestText(ctx, core.ID(c.String("agent")), title, c.String("file"), string(raw))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	chunks, err := db.ChunkRepository().GetChunksByDocument(ctx, doc.Id)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Ingested %s as document %s (%d chunks)\n", title, doc.Id, len(chunks))
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(ingestion.WithProgress(os.Stderr))
	if err != nil {
		return fmt.Errorf("creating ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	agentID := core.ID(c.String("agent"))
	if err := pipeline.ReindexAgent(ctx, agentID); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	total, err := db.ChunkRepository().CountChunksByAgent(ctx, agentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Reindexed agent %s (%d chunks)\n", agentID, total)
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	engine, err := db.NewEngine()
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Release()

	agentID := core.ID(c.String("agent"))
	fmt.Fprintln(os.Stderr, `Type a message, "back" to revisit the previous question, or Ctrl-D to quit.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		reply, err := engine.Chat(ctx, bot.ChatRequest{
			AgentId:  agentID,
			ClientId: c.String("client"),
			Channel:  "cli",
			Text:     text,
		})
		if err != nil {
			return fmt.Errorf("chat turn failed: %w", err)
		}

		fmt.Println(reply.Text)
		for i, citation := range reply.Citations {
			fmt.Printf("  [#%d] doc %s (%.3f): %s\n", i+1, citation.DocumentId, citation.Similarity, citation.Excerpt)
		}
	}
	return scanner.Err()
}

func routeCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	router, err := db.NewRouter()
	if err != nil {
		return fmt.Errorf("creating router: %w", err)
	}

	result, err := router.RouteLead(ctx, core.ID(c.String("lead")))
	if err != nil {
		return fmt.Errorf("routing failed: %w", err)
	}

	if result.Routed {
		fmt.Printf("Routed to vendor %s (%s)\n", result.VendorId, result.Reason)
	} else {
		fmt.Printf("Not routed: %s\n", result.Reason)
	}
	return nil
}

func schemaCommand(c *cli.Context) error {
	ctx := context.Background()

	kind := strings.ToLower(c.String("kind"))
	if kind != "lead" && kind != "dynamic" {
		return fmt.Errorf("invalid schema kind %q: must be lead or dynamic", kind)
	}

	db, err := openDatabase(c)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	builder, err := db.NewSchemaBuilder()
	if err != nil {
		return fmt.Errorf("creating schema builder: %w", err)
	}

	agentID := core.ID(c.String("agent"))
	description := c.String("description")

	var sections int
	if kind == "lead" {
		schema, err := builder.BuildLeadSchema(ctx, agentID, description)
		if err != nil {
			return fmt.Errorf("lead schema build failed: %w", err)
		}
		sections = len(schema.Sections)
	} else {
		schema, err := builder.BuildDynamicSchema(ctx, agentID, description)
		if err != nil {
			return fmt.Errorf("dynamic schema build failed: %w", err)
		}
		sections = len(schema.Sections)
	}

	fmt.Fprintf(os.Stderr, "Built %s schema for agent %s (%d sections)\n", kind, agentID, sections)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
