package main

import (
	"context"

	"github.com/PeterBarbas/leaply-sub001/internal/adapter/openai"
	"github.com/PeterBarbas/leaply-sub001/internal/adapter/sqlite"
	"github.com/PeterBarbas/leaply-sub001/internal/config"
	"github.com/PeterBarbas/leaply-sub001/internal/usecase/discover"
	"github.com/PeterBarbas/leaply-sub001/internal/usecase/match"
)

// buildDiscovery wires the discovery service; the caller closes the catalog.
func buildDiscovery(ctx context.Context) (*discover.Service, *config.Roles, *sqlite.Catalog, error) {
	if err := cfg.RequireOpenAI(); err != nil {
		return nil, nil, nil, err
	}

	roles, err := config.LoadRoles(cfg.RolesFile)
	if err != nil {
		return nil, nil, nil, err
	}

	catalog, err := sqlite.Open(ctx, cfg.CatalogDSN)
	if err != nil {
		return nil, nil, nil, err
	}

	client := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	controller := discover.NewController(client, roles, cfg, logger.Named("controller"))
	svc := discover.NewService(controller, catalog, match.NewMatcher(roles), logger.Named("discover"))
	return svc, roles, catalog, nil
}
