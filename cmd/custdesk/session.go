// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"

	"github.com/AleutianAI/custdesk/cmd/custdesk/config"
	"github.com/AleutianAI/custdesk/pkg/logging"
	"github.com/AleutianAI/custdesk/services/customers/api"
	"github.com/AleutianAI/custdesk/services/customers/store"
)

// session is the customer service a command talks to.
type session struct {
	svc    api.Service
	remote bool
	close  func() error
}

// Close releases the in-process store, if any.
func (s *session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openSession connects to the server at url (falling back to
// client.base_url), or opens an in-process store when neither is set.
//
// # Description
//
// The in-process store lives only as long as the command. It is loaded
// from seed_file when one is configured, which is what makes read-only
// commands useful without a server.
func openSession(ctx context.Context, cfg config.CustdeskConfig, url string, logger *logging.Logger, opts ...api.LocalOption) (*session, error) {
	if url == "" {
		url = cfg.Client.BaseURL
	}
	if url != "" {
		return &session{svc: api.NewClient(url, cfg.Client.Timeout), remote: true}, nil
	}

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		svc:   api.NewLocal(repo, logger, opts...),
		close: repo.Close,
	}, nil
}

// openRepository opens the in-memory store and applies the seed file.
func openRepository(ctx context.Context, cfg config.CustdeskConfig, logger *logging.Logger) (*store.Repository, error) {
	repo, err := store.Open(store.Config{})
	if err != nil {
		return nil, fmt.Errorf("open customer store: %w", err)
	}
	if cfg.SeedFile == "" {
		return repo, nil
	}

	customers, err := store.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	n, err := repo.Seed(ctx, customers)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("seed customer store: %w", err)
	}
	logger.Info("customer store seeded", "file", cfg.SeedFile, "count", n)
	return repo, nil
}

// commandLogger is the logger for one-shot commands and the TUI. Console
// output is off so it never mixes with command output; logging.dir still
// gets the JSON file.
func commandLogger(cfg config.CustdeskConfig) *logging.Logger {
	lc := cfg.LoggerConfig("custdesk")
	lc.Quiet = true
	return logging.New(lc)
}
