package cli

import (
	"fmt"
	"time"

	configfile "github.com/helpsync-labs/helpsync-cli/internal/adapters/driven/config/file"
	"github.com/helpsync-labs/helpsync-cli/internal/adapters/driven/index/openai"
	storagefile "github.com/helpsync-labs/helpsync-cli/internal/adapters/driven/storage/file"
	"github.com/helpsync-labs/helpsync-cli/internal/connectors/zendesk"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driving"
	"github.com/helpsync-labs/helpsync-cli/internal/core/services"
	htmlnorm "github.com/helpsync-labs/helpsync-cli/internal/normalisers/html"
)

// components bundles everything a command may need. Built per
// invocation from the loaded config.
type components struct {
	connector   driven.ArticleConnector
	index       driven.DocumentIndex
	docStore    driven.DocumentStore
	ledgerStore driven.LedgerStore
	pipeline    driving.Pipeline
}

// buildComponents wires adapters to the core. Overridable so command
// tests can substitute fakes.
var buildComponents = defaultBuildComponents

func defaultBuildComponents(cfg *configfile.Config) (*components, error) {
	connector, err := zendesk.New(zendesk.Config{
		BaseURL:    cfg.Source.BaseURL,
		Locale:     cfg.Source.Locale,
		PerPage:    cfg.Source.PerPage,
		Limit:      cfg.Source.Limit,
		Timeout:    time.Duration(cfg.Source.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.Source.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}

	index, err := openai.NewVectorStoreIndex(openai.Config{
		APIKey:             cfg.Index.APIKey,
		VectorStoreID:      cfg.Index.VectorStoreID,
		BaseURL:            cfg.Index.BaseURL,
		ChunkSizeTokens:    cfg.Index.ChunkSizeTokens,
		ChunkOverlapTokens: cfg.Index.ChunkOverlapTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	docStore, err := storagefile.NewDocumentStore(cfg.DocumentDir())
	if err != nil {
		return nil, fmt.Errorf("create document store: %w", err)
	}
	ledgerStore := storagefile.NewLedgerStore(cfg.LedgerPath())

	syncer := services.NewSyncer(index, services.SyncerConfig{
		Workers:     cfg.Sync.Workers,
		PollTimeout: time.Duration(cfg.Sync.PollTimeoutSeconds) * time.Second,
	})

	pipeline := services.NewSyncPipeline(
		connector,
		htmlnorm.New(),
		docStore,
		ledgerStore,
		index,
		syncer,
	)

	return &components{
		connector:   connector,
		index:       index,
		docStore:    docStore,
		ledgerStore: ledgerStore,
		pipeline:    pipeline,
	}, nil
}
