package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/mindvault/mindvault/internal/profile"
	"github.com/mindvault/mindvault/server"
	"github.com/mindvault/mindvault/store"
	"github.com/mindvault/mindvault/store/db"
)

const version = "0.2.0"

var rootCmd = &cobra.Command{
	Use:   "mindvault",
	Short: "A note store with user-scoped semantic search",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:                viper.GetString("mode"),
			Addr:                viper.GetString("addr"),
			Port:                viper.GetInt("port"),
			DSN:                 viper.GetString("dsn"),
			Version:             version,
			Origins:             viper.GetStringSlice("origins"),
			AIBaseURL:           viper.GetString("ai-base-url"),
			AIAPIKey:            viper.GetString("ai-api-key"),
			AIEmbeddingModel:    viper.GetString("ai-embedding-model"),
			AIChatModel:         viper.GetString("ai-chat-model"),
			AIDimensions:        viper.GetInt("ai-dimensions"),
			AIQueryPrefix:       viper.GetString("ai-query-prefix"),
			AIDocumentPrefix:    viper.GetString("ai-document-prefix"),
			AITimeout:           viper.GetDuration("ai-timeout"),
			SearchCandidatePool: viper.GetInt("search-candidate-pool"),
			SearchDefaultLimit:  viper.GetInt("search-default-limit"),
			SearchMaxLimit:      viper.GetInt("search-max-limit"),
			StoreTimeout:        viper.GetDuration("store-timeout"),
		}
		if err := instanceProfile.Validate(); err != nil {
			return err
		}
		return run(instanceProfile)
	},
}

func run(instanceProfile *profile.Profile) error {
	setupLogger(instanceProfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	storeInstance := store.New(driver, instanceProfile)

	s, err := server.New(ctx, instanceProfile, storeInstance)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.Start)
	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown(context.Background())
		return nil
	})
	return g.Wait()
}

func setupLogger(p *profile.Profile) {
	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")
	rootCmd.PersistentFlags().StringSlice("origins", nil, "allowed CORS origins")
	rootCmd.PersistentFlags().String("ai-base-url", "", "base URL of the OpenAI-compatible provider")
	rootCmd.PersistentFlags().String("ai-api-key", "", "API key of the embedding provider")
	rootCmd.PersistentFlags().String("ai-embedding-model", "text-embedding-004", "embedding model identifier")
	rootCmd.PersistentFlags().String("ai-chat-model", "gpt-4o-mini", "chat model for tag suggestion")
	rootCmd.PersistentFlags().Int("ai-dimensions", 768, "embedding dimensionality")
	rootCmd.PersistentFlags().String("ai-query-prefix", "", "instruction prefix for query-mode embeddings")
	rootCmd.PersistentFlags().String("ai-document-prefix", "", "instruction prefix for document-mode embeddings")
	rootCmd.PersistentFlags().Duration("ai-timeout", 0, "timeout for embedding provider calls")
	rootCmd.PersistentFlags().Int("search-candidate-pool", 100, "approximate candidates examined per vector search")
	rootCmd.PersistentFlags().Int("search-default-limit", 10, "default search result limit")
	rootCmd.PersistentFlags().Int("search-max-limit", 50, "maximum search result limit")
	rootCmd.PersistentFlags().Duration("store-timeout", 0, "timeout for database calls")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("mindvault")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
