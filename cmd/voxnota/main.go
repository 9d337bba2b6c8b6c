// Copyright 2025 Poiesic Systems
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
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/voxnota"
	"github.com/poiesic/voxnota/nlp"
	"github.com/poiesic/voxnota/query"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "voxnota",
		Usage: "Keyword index over spoken-conversation transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to SQLite database file (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Extract keywords from a transcript and store both",
				ArgsUsage: "[transcript text; reads stdin if omitted]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-embeddings",
						Usage: "Skip the embedding strategy and use the frequency fallback",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show one conversation with its stored keywords",
				ArgsUsage: "<conversation id>",
				Action:    showCommand,
			},
			{
				Name:   "keywords",
				Usage:  "List every distinct stored keyword",
				Action: keywordsCommand,
			},
			{
				Name:      "search",
				Usage:     "Find conversations by keyword substring",
				ArgsUsage: "<keyword>",
				Action:    searchCommand,
			},
			{
				Name:   "logs",
				Usage:  "List conversations filtered by date range and keyword",
				Action: logsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "start",
						Usage: "Inclusive start date (2006-01-02 or RFC 3339)",
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "Inclusive end date (2006-01-02 or RFC 3339)",
					},
					&cli.StringFlag{
						Name:  "keyword",
						Usage: "Keyword substring filter",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openEngine builds an Engine from the config file and CLI overrides.
func openEngine(c *cli.Context, noEmbeddings bool) (*voxnota.Engine, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Database
	if c.String("db") != "" {
		dbPath = c.String("db")
	}

	opts := []voxnota.EngineOption{
		voxnota.WithKeywordLimit(cfg.KeywordLimit),
		voxnota.WithNLPConfig(nlp.NewConfig(
			nlp.WithEmbeddingHost(cfg.Embeddings.Host),
			nlp.WithEmbeddingModel(cfg.Embeddings.Model),
		)),
	}
	if noEmbeddings || cfg.Embeddings.Disabled {
		opts = append(opts, voxnota.WithoutEmbeddings())
	}

	return voxnota.NewEngine(dbPath, opts...)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	engine, err := openEngine(c, c.Bool("no-embeddings"))
	if err != nil {
		return err
	}
	defer engine.Close()

	engine.InitializeModel(ctx)

	id, keywords, err := engine.Pipeline().Ingest(ctx, text, time.Time{})
	if err != nil {
		return err
	}

	fmt.Printf("stored conversation %d\n", id)
	for _, ws := range keywords {
		fmt.Printf("  %-20s %.6f\n", ws.Word, ws.Score)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("show requires a conversation id argument")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid conversation id %q", c.Args().First())
	}

	engine, err := openEngine(c, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	conversation, keywords, err := engine.Queries().Conversation(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("[%d] %s\n%s\n", conversation.Id,
		conversation.Timestamp.Format(time.RFC3339), conversation.Text)
	for _, keyword := range keywords {
		fmt.Printf("  %-20s %.6f\n", keyword.Word, keyword.Score)
	}
	return nil
}

func keywordsCommand(c *cli.Context) error {
	engine, err := openEngine(c, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	words, err := engine.Queries().Keywords(context.Background())
	if err != nil {
		return err
	}
	for _, word := range words {
		fmt.Println(word)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("search requires a keyword argument")
	}

	engine, err := openEngine(c, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	hits, err := engine.Queries().Search(context.Background(), c.Args().First())
	if err != nil {
		return err
	}
	for _, hit := range hits {
		fmt.Printf("[%d] %s  (%s, %.4f)\n  %s\n",
			hit.ConversationId, hit.Timestamp.Format(time.RFC3339), hit.Word, hit.Score, hit.Text)
	}
	return nil
}

func logsCommand(c *cli.Context) error {
	engine, err := openEngine(c, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	entries, err := engine.Queries().Logs(context.Background(), query.Filter{
		StartDate: c.String("start"),
		EndDate:   c.String("end"),
		Keyword:   c.String("keyword"),
	})
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Printf("[%d] %s  keywords: %s\n  %s\n",
			entry.ConversationId, entry.Timestamp.Format(time.RFC3339),
			strings.Join(entry.Keywords, ", "), entry.Text)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
