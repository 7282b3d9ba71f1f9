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
	"errors"
	"os"

	"github.com/AleutianAI/custdesk/cmd/custdesk/config"
	"github.com/AleutianAI/custdesk/services/customers/tui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// errNotTerminal is returned when tui is started without a terminal.
var errNotTerminal = errors.New("custdesk tui needs an interactive terminal; use the list, show and create commands in scripts")

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errNotTerminal
	}

	cfg := config.Global
	logger := commandLogger(cfg)
	defer logger.Close()

	ctx := cmd.Context()
	sess, err := openSession(ctx, cfg, serverURL, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	title := "custdesk"
	if !sess.remote {
		title = "custdesk (in-process, not saved)"
	}
	return tui.Run(sess.svc, tui.Options{
		PageSize: cfg.List.PageSize,
		Context:  ctx,
		Title:    title,
	})
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
