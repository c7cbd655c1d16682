package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/kitchenmania/pantry/internal/config"
	"github.com/kitchenmania/pantry/internal/llm"
	"github.com/kitchenmania/pantry/internal/logger"
	"github.com/kitchenmania/pantry/internal/parser"
	"github.com/kitchenmania/pantry/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgPath string
	dbPath  string
	verbose bool

	cfg *config.Config
	log *zap.Logger
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "pantry",
		Short:         "Track groceries in your pantry with unit-aware bulk adds",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}

			logCfg := logger.Config{
				Level:       cfg.Log.Level,
				Format:      cfg.Log.Format,
				Development: cfg.Log.Development,
			}
			// keep one-shot commands quiet unless asked
			if cmd.Name() != "serve" && !verbose {
				logCfg.Level = "warn"
			}
			log = logger.New(logCfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ./pantry.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level")

	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(bulkCmd())
	rootCmd.AddCommand(receiptCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(displayCmd())
	rootCmd.AddCommand(priceCmd())
	rootCmd.AddCommand(recipeCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.Database.Path)
}

// newClient returns nil when no API key is configured
func newClient() *llm.Client {
	return llm.New(llm.Config{
		APIKey:    cfg.AI.APIKey,
		Model:     cfg.AI.Model,
		BaseURL:   cfg.AI.BaseURL,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
	}, log)
}

func newParser() parser.Parser {
	return parser.New(newClient(), log)
}

// resolveID finds the single full ID starting with prefix
func resolveID(prefix string, ids []string) (string, error) {
	var found []string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no match for %q: %w", prefix, store.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("ambiguous id prefix %q matches %d entries", prefix, len(found))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
