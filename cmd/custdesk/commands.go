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
	"github.com/AleutianAI/custdesk/cmd/custdesk/config"
	"github.com/AleutianAI/custdesk/pkg/ux"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath       string
	personalityLevel string // UX personality level (full/minimal/machine)
	serverURL        string // remote server; empty uses the in-process store

	serveAddr string

	createForm  createFlags
	listFlags   listOptions
	deleteYes   bool
	multiSearch string
	addressArgs []string

	rootCmd = &cobra.Command{
		Use:   "custdesk",
		Short: "Manage customer records and their addresses",
		Long: `custdesk keeps a small set of customer records: create, list, search,
sort and page them, and manage each customer's addresses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonality(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
			return config.Load(configPath)
		},
	}

	// --- Server ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the customer HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in cmd_serve.go
	}

	// --- Terminal UI ---
	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen customer manager",
		Args:  cobra.NoArgs,
		RunE:  runTUI, // Defined in cmd_tui.go
	}

	// --- Customers ---
	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a customer (prompts for anything not given as a flag)",
		Args:  cobra.NoArgs,
		RunE:  runCreate, // Defined in cmd_customers.go
	}
	listCmd = &cobra.Command{
		Use:     "list",
		Short:   "List customers with optional search, filters, sorting and paging",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE:    runList, // Defined in cmd_customers.go
	}
	showCmd = &cobra.Command{
		Use:   "show [id]",
		Short: "Show one customer's profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow, // Defined in cmd_customers.go
	}
	deleteCmd = &cobra.Command{
		Use:     "delete [id]",
		Short:   "Delete a customer after confirmation",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE:    runDelete, // Defined in cmd_customers.go
	}
	multiCmd = &cobra.Command{
		Use:   "multi",
		Short: "List customers that have more than one address",
		Args:  cobra.NoArgs,
		RunE:  runMulti, // Defined in cmd_customers.go
	}

	// --- Addresses ---
	addressesCmd = &cobra.Command{
		Use:   "addresses",
		Short: "Manage a customer's addresses",
	}
	addressesSetCmd = &cobra.Command{
		Use:   "set [id]",
		Short: "Replace a customer's addresses",
		Long: `Replace every address of a customer. Repeat --address once per address,
each as 'address|city|state|pinCode'.`,
		Args: cobra.ExactArgs(1),
		RunE: runAddressesSet, // Defined in cmd_customers.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $"+config.EnvConfigPath+" or ~/.custdesk/custdesk.yaml)")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"output style: full, minimal, machine (default: detected, or $"+ux.EnvPersonality+")")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"base URL of a running custdesk server (default: client.base_url, or an in-process store)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")

	createCmd.Flags().StringVar(&createForm.FirstName, "first-name", "", "first name")
	createCmd.Flags().StringVar(&createForm.LastName, "last-name", "", "last name")
	createCmd.Flags().StringVar(&createForm.Phone, "phone", "", "phone number, 10 digits")
	createCmd.Flags().StringVar(&createForm.Email, "email", "", "email address (optional)")
	createCmd.Flags().StringVar(&createForm.Address, "address", "", "street address")
	createCmd.Flags().StringVar(&createForm.City, "city", "", "city")
	createCmd.Flags().StringVar(&createForm.State, "state", "", "state")
	createCmd.Flags().StringVar(&createForm.PinCode, "pin-code", "", "pin code, 6 digits")
	createCmd.Flags().BoolVar(&createForm.NoPrompt, "no-prompt", false, "never prompt for missing fields")

	listCmd.Flags().StringVarP(&listFlags.Search, "search", "s", "", "match id, first name, last name or phone")
	listCmd.Flags().StringVar(&listFlags.City, "city", "", "filter by address city")
	listCmd.Flags().StringVar(&listFlags.State, "state", "", "filter by address state")
	listCmd.Flags().StringVar(&listFlags.PinCode, "pin-code", "", "filter by address pin code")
	listCmd.Flags().StringVar(&listFlags.Sort, "sort", "id", "sort field: id, name, phone")
	listCmd.Flags().StringVar(&listFlags.Dir, "dir", "asc", "sort direction: asc, desc")
	listCmd.Flags().IntVarP(&listFlags.Page, "page", "p", 1, "page number")
	listCmd.Flags().IntVar(&listFlags.PageSize, "page-size", 0, "rows per page (default: list.page_size)")
	listCmd.Flags().BoolVar(&listFlags.All, "all", false, "show every matching row on one page")

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	multiCmd.Flags().StringVarP(&multiSearch, "search", "s", "", "match id, first name, last name or phone")

	addressesSetCmd.Flags().StringArrayVarP(&addressArgs, "address", "a", nil,
		"an address as 'address|city|state|pinCode' (repeatable)")
	_ = addressesSetCmd.MarkFlagRequired("address")
	addressesCmd.AddCommand(addressesSetCmd)

	rootCmd.AddCommand(serveCmd, tuiCmd, createCmd, listCmd, showCmd, deleteCmd, multiCmd, addressesCmd)
}
