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
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/noema"
	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/reorg"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional .env for NOEMA_DB and friends; absence is fine
	godotenv.Load()

	app := &cli.App{
		Name:  "noema",
		Usage: "Personal knowledge base with hybrid search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./noema_db",
				EnvVars: []string{"NOEMA_DB"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a knowledge item and organize it",
				ArgsUsage: "[content, stdin when omitted]",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Item title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source type (document, pdf, code, web, note)",
						Value: "note",
					},
					&cli.StringFlag{
						Name:  "path",
						Usage: "Source path or URL",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				ArgsUsage: "query...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:  "min-relevance",
						Usage: "Drop results scoring below this relevance",
					},
					&cli.StringSliceFlag{
						Name:  "category",
						Usage: "Only return items in these categories",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Only return items carrying these tags",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order (relevance, date, title)",
						Value: "relevance",
					},
					&cli.BoolFlag{
						Name:  "group",
						Usage: "Group results by category",
					},
				},
			},
			{
				Name:      "similar",
				Usage:     "List items semantically similar to an item",
				ArgsUsage: "item-id",
				Action:    similarCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max",
						Aliases: []string{"n"},
						Usage:   "Maximum number of items",
						Value:   5,
					},
				},
			},
			{
				Name:      "related",
				Usage:     "Walk the knowledge graph around an item",
				ArgsUsage: "item-id",
				Action:    relatedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "depth",
						Usage: "Maximum traversal depth",
						Value: 2,
					},
				},
			},
			{
				Name:      "suggest",
				Usage:     "Suggest query completions for a partial query",
				ArgsUsage: "partial",
				Action:    suggestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max",
						Aliases: []string{"n"},
						Usage:   "Maximum number of suggestions",
						Value:   10,
					},
				},
			},
			{
				Name:   "rebuild",
				Usage:  "Rebuild the search index, semantic model and knowledge graph from storage",
				Action: rebuildCommand,
			},
			{
				Name:   "reorganize",
				Usage:  "Re-classify, re-tag and re-link every stored item",
				Action: reorganizeCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items per batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-every",
						Usage: "Report progress every N items",
						Value: 100,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDatabase opens the store and replays in-memory retrieval state.
func openDatabase(c *cli.Context) (*noema.Database, error) {
	db, err := noema.NewDatabase(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Rebuild(c.Context); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to rebuild state: %w", err)
	}
	return db, nil
}

func addCommand(c *cli.Context) error {
	sourceType, err := parseSourceType(c.String("source"))
	if err != nil {
		return err
	}

	content := strings.Join(c.Args().Slice(), " ")
	if content == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading content from stdin: %w", err)
		}
		content = strings.TrimSpace(string(data))
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	item := &core.KnowledgeItem{
		Title:      c.String("title"),
		Content:    content,
		SourceType: sourceType,
		SourcePath: c.String("path"),
	}
	if _, err := db.ItemRepository().SaveItems(ctx, item); err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	if err := db.Organizer().OrganizeItem(ctx, item); err != nil {
		return fmt.Errorf("failed to organize item: %w", err)
	}
	if _, err := db.ItemRepository().SaveItems(ctx, item); err != nil {
		return fmt.Errorf("failed to save organized item: %w", err)
	}
	if err := db.SearchEngine().UpdateIndex(item); err != nil {
		return fmt.Errorf("failed to index item: %w", err)
	}

	relationships, err := db.Organizer().FindRelationships(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to find relationships: %w", err)
	}
	if err := db.Organizer().UpdateKnowledgeGraph(ctx, relationships...); err != nil {
		return fmt.Errorf("failed to update knowledge graph: %w", err)
	}

	fmt.Printf("Added item %d (%s)\n", item.Id, item.Title)
	fmt.Printf("  categories: %s\n", strings.Join(item.Categories, ", "))
	fmt.Printf("  tags:       %s\n", strings.Join(item.Tags, ", "))
	fmt.Printf("  links:      %d\n", len(relationships))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := core.SearchOptions{
		MaxResults:        c.Int("max"),
		MinRelevance:      c.Float64("min-relevance"),
		IncludeCategories: c.StringSlice("category"),
		IncludeTags:       c.StringSlice("tag"),
		SortBy:            core.SortOrder(c.String("sort")),
		GroupByCategory:   c.Bool("group"),
	}

	results, err := db.SearchEngine().Search(c.Context, query, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits in %s\n", results.TotalFound, results.SearchTime)
	if results.GroupedResults != nil {
		for category, grouped := range results.GroupedResults {
			fmt.Printf("%s:\n", category)
			for _, result := range grouped {
				printResult(result)
			}
		}
		return nil
	}
	for _, result := range results.Results {
		printResult(result)
	}
	return nil
}

func printResult(result *core.SearchResult) {
	fmt.Printf("  [%0.3f] %s (%d) {%s}\n",
		result.Relevance, result.Item.Title, result.Item.Id,
		strings.Join(result.MatchedFields, ","))
	for _, match := range result.ChunkMatches {
		fmt.Printf("          - %s [%0.3f]\n", match.Chunk.Heading, match.Relevance)
	}
}

func similarCommand(c *cli.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	item, err := db.ItemRepository().GetItem(c.Context, id)
	if err != nil {
		return fmt.Errorf("failed to load item %d: %w", id, err)
	}

	for _, similar := range db.SearchEngine().GetSimilarItems(item, c.Int("max")) {
		fmt.Printf("%d: %s\n", similar.Id, similar.Title)
	}
	return nil
}

func relatedCommand(c *cli.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := db.Organizer().RelatedItems(c.Context, id, c.Int("depth"))
	if err != nil {
		return err
	}
	for _, item := range items {
		fmt.Printf("%d: %s\n", item.Id, item.Title)
	}
	return nil
}

func suggestCommand(c *cli.Context) error {
	partial := strings.Join(c.Args().Slice(), " ")
	if partial == "" {
		return fmt.Errorf("partial query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, suggestion := range db.SearchEngine().Suggest(partial, c.Int("max")) {
		fmt.Println(suggestion)
	}
	return nil
}

func rebuildCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := db.ItemRepository().GetAllItems(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Rebuilt index and graph over %d items\n", len(items))
	return nil
}

func reorganizeCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := reorg.DefaultConfig()
	config.BatchSize = c.Int("batch-size")
	config.ReportInterval = c.Int("report-every")

	r, err := reorg.NewReorganizer(db.ItemRepository(), db.Organizer(), db.SearchEngine(), config, os.Stderr)
	if err != nil {
		return err
	}
	return r.Run(c.Context)
}

func parseItemID(c *cli.Context) (core.ID, error) {
	if c.Args().Len() != 1 {
		return 0, fmt.Errorf("exactly one item id is required")
	}
	var id uint64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid item id %q", c.Args().First())
	}
	return core.ID(id), nil
}

func parseSourceType(value string) (core.SourceType, error) {
	switch core.SourceType(strings.ToLower(value)) {
	case core.SourceTypeDocument:
		return core.SourceTypeDocument, nil
	case core.SourceTypePDF:
		return core.SourceTypePDF, nil
	case core.SourceTypeCode:
		return core.SourceTypeCode, nil
	case core.SourceTypeWeb:
		return core.SourceTypeWeb, nil
	case core.SourceTypeNote:
		return core.SourceTypeNote, nil
	default:
		return "", fmt.Errorf("invalid source type %q: must be one of document, pdf, code, web, note", value)
	}
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
