// Package cli implements the courserec command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/registrar-labs/courserec/internal/adapters/driven/catalogapi"
	configfile "github.com/registrar-labs/courserec/internal/adapters/driven/config/file"
	"github.com/registrar-labs/courserec/internal/adapters/driven/storage/sqlite"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
	"github.com/registrar-labs/courserec/internal/core/services"
	"github.com/registrar-labs/courserec/internal/logger"
	"github.com/registrar-labs/courserec/internal/metrics"
	"github.com/registrar-labs/courserec/internal/normalisers/description"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose   bool
	dataDir   string
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "courserec",
	Short: "Course catalog recommendations from description similarity",
	Long: `courserec ingests a university course catalog and enrollment demand
data, then recommends related courses by comparing course descriptions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Missing .env is fine; environment variables may be set directly.
		_ = godotenv.Load()
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.courserec/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.courserec)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app bundles the wired adapters and services for one command invocation.
type app struct {
	store  *sqlite.Store
	config driven.ConfigStore
}

// newApp opens the config and storage layers. Callers must Close.
func newApp() (*app, error) {
	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	dir := dataDir
	if dir == "" {
		dir = cfg.GetString(driven.ConfigKeyDataDir)
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &app{store: store, config: cfg}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("closing store: %v", err)
	}
}

// ingestService wires the ingestion pipeline. The catalog API client is
// only configured when a base URL is known.
func (a *app) ingestService() *services.Ingest {
	var api driven.CatalogAPI
	if baseURL := a.apiBaseURL(); baseURL != "" {
		api = catalogapi.NewClient(catalogapi.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("COURSEREC_API_KEY"),
			School:  a.config.GetString(driven.ConfigKeySchool),
		})
	}

	return services.NewIngest(
		a.store.CatalogStore(),
		a.store.DemandStore(),
		api,
		description.New(),
	)
}

// recommenderService builds the similarity index from the stored corpus
// and wires the recommender. Fails when the catalog is empty.
func (a *app) recommenderService(ctx context.Context) (*services.Recommender, error) {
	corpus, err := a.store.CatalogStore().Corpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	start := time.Now()
	index, err := services.BuildIndex(corpus)
	if err != nil {
		return nil, fmt.Errorf("building similarity index: %w", err)
	}
	metrics.IndexBuildSeconds.Set(time.Since(start).Seconds())
	metrics.IndexedCourses.Set(float64(index.Len()))
	logger.Debug("index built: %d courses, %d terms, %s",
		index.Len(), index.VocabularySize(), time.Since(start))

	titles, err := a.store.CatalogStore().Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading titles: %w", err)
	}

	aggregator := services.NewDemandAggregator(a.store.ScratchStore())
	return services.NewRecommender(index, titles, a.store.CatalogStore(), aggregator), nil
}

// apiBaseURL prefers the environment over the config file.
func (a *app) apiBaseURL() string {
	if url := os.Getenv("COURSEREC_API_BASE_URL"); url != "" {
		return url
	}
	return a.config.GetString(driven.ConfigKeyAPIBaseURL)
}
