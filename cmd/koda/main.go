// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for the Koda client using the
// Cobra library. Running without a subcommand launches the interactive TUI;
// the subcommands (login, logout, shorten, links) give scripted access to
// the same core.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/auth"
	"github.com/kodalabs/koda/internal/config"
	"github.com/kodalabs/koda/internal/core"
	"github.com/kodalabs/koda/internal/i18n"
	"github.com/kodalabs/koda/internal/logging"
	"github.com/kodalabs/koda/internal/session"
	"github.com/kodalabs/koda/internal/tui"
)

var version = "dev" // this will be set by the linker

var cfgFile string

// app holds the wired application state, built once in the root command's
// PersistentPreRunE and shared by all subcommands.
var app struct {
	cfg  config.Config
	deps tui.Deps
}

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	// A local .env can supply KODA_* variables during development.
	_ = godotenv.Load()
	rootCmd = newRootCmd()
}

// flagBinds maps config keys to the flags whose spelling differs.
var flagBinds = map[string]string{
	"api.url":      "api-url",
	"language":     "lang",
	"session.path": "session-path",
}

// newRootCmd creates and configures a new root cobra command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "koda",
		Short: "Koda is a terminal client for the Koda Shortlink service.",
		Long: `Koda talks to a Koda Shortlink server: create short links, browse and
manage your link collection, and follow your click statistics.

Running without a subcommand launches the interactive TUI.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load[config.Config](cmd, config.Defaults(), &cfgFile, flagBinds)
			if err != nil {
				return fmt.Errorf("could not load configuration: %w", err)
			}
			if cfg.Session.Path == "" {
				cfg.Session.Path, err = config.DefaultSessionPath()
				if err != nil {
					return err
				}
			}
			i18n.Init(cfg.Language)
			logging.SetDebug(cfg.Debug)

			store := session.NewStore(cfg.Session.Path)
			client := api.New(cfg.API.URL, cfg.API.BasePath, store.AccessToken)
			app.cfg = cfg
			app.deps = tui.Deps{
				API:     client,
				Auth:    auth.NewController(store, client),
				Session: store,
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(app.deps, &app.cfg)
		},
	}

	cmd.AddCommand(loginCmd)
	cmd.AddCommand(logoutCmd)
	cmd.AddCommand(shortenCmd)
	cmd.AddCommand(linksCmd)

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is koda.yaml in the user config dir or the current dir)")
	cmd.PersistentFlags().String("api-url", "http://localhost:8082", "base URL of the Shortlink server")
	cmd.PersistentFlags().String("lang", "en", `interface language ("en", "de")`)
	cmd.PersistentFlags().String("session-path", "", "path of the session token file")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	return cmd
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		fmt.Fprint(cmd.OutOrStdout(), "Username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		username = strings.TrimSpace(username)

		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if err := app.deps.Auth.Login(cmd.Context(), username, string(password)); err != nil {
			return fmt.Errorf("sign-in failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Logout is fail-open: the local session is cleared even when the
		// server cannot be reached.
		if err := app.deps.Auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var shortenCmd = &cobra.Command{
	Use:   "shorten <url>",
	Short: "Create a short link for a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.TrimSpace(args[0])
		if err := core.ValidateShortenURL(raw); err != nil {
			return err
		}
		link, err := app.deps.API.CreateLink(cmd.Context(), raw)
		if err != nil {
			return err
		}
		full := app.deps.API.ShortLinkURL(link.Slug())
		fmt.Fprintln(cmd.OutOrStdout(), full)
		if clipboard.WriteAll(full) == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "(copied to clipboard)")
		}
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List your short links",
	RunE: func(cmd *cobra.Command, args []string) error {
		links, err := app.deps.API.ListLinks(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SHORT URL\tDESTINATION\tVISITS\tSTATUS")
		for _, l := range links {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				app.deps.API.ShortLinkURL(l.Slug()), l.OriginalURL, l.TotalClicks, l.Status)
		}
		return w.Flush()
	},
}
