package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"payme-tui/api"
	"payme-tui/config"
	"payme-tui/devserver"
	"payme-tui/receipt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var Version = "dev"

// -------------------- CLI --------------------

func rootCmd() *cobra.Command {
	var (
		configPath string
		invoiceID  string
	)

	cmd := &cobra.Command{
		Use:   "payme [link]",
		Short: "Terminal invoicing and multi-send for stablecoin payments",
		Long: `Create invoices, pay them, and send batches of token transfers.

Examples:
  payme
  payme "http://localhost:8080/?invoiceId=3f0c..."
  payme --invoice 3f0c...`,
		Version:      Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.ReadEnv()
			if err != nil {
				return err
			}
			if len(args) == 1 && invoiceID == "" {
				if invoiceID, err = invoiceIDFromLink(args[0]); err != nil {
					return err
				}
			}

			m, err := newModel(options{
				configPath: resolveConfigPath(configPath, env),
				env:        env,
				invoiceID:  invoiceID,
			})
			if err != nil {
				return err
			}
			p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/"+config.DefaultFileName+")")
	cmd.Flags().StringVarP(&invoiceID, "invoice", "i", "", "open the payment page of this invoice")

	cmd.AddCommand(receiptCmd(&configPath))
	cmd.AddCommand(devserverCmd())
	return cmd
}

func receiptCmd(configPath *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "receipt [invoice id]",
		Short: "Print or save the receipt of a paid invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "receipt"})

			env, err := config.ReadEnv()
			if err != nil {
				return err
			}
			cfg := config.Load(resolveConfigPath(*configPath, env)).Apply(env)
			opts := receipt.Options{Network: cfg.ChainName, ExplorerURL: cfg.ExplorerURL}

			ctx, cancel := context.WithTimeout(cmd.Context(), apiTimeout)
			defer cancel()
			inv, err := api.New(cfg.APIURL).GetInvoice(ctx, args[0])
			if err != nil {
				return errors.New(api.ErrorMessage(err, "failed to load invoice"))
			}

			if out == "" {
				text, err := receipt.Render(inv, opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			if err := receipt.Save(out, inv, opts); err != nil {
				return err
			}
			logger.Info("receipt saved", "path", out, "invoice", inv.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write a printable HTML receipt to this file")
	return cmd
}

func devserverCmd() *cobra.Command {
	var (
		addr     string
		linkBase string
		chainID  int64
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory invoice and contacts API for local use",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "devserver", ReportTimestamp: true})

			if linkBase == "" {
				linkBase = "http://" + hostForLinks(addr)
			}
			router := devserver.NewRouter(devserver.NewStore(linkBase, chainID),
				devserver.WithLogger(logger),
				devserver.WithRateLimit(limit, time.Minute))

			logger.Info("listening", "addr", addr, "links", linkBase, "chain", chainID)
			return router.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&linkBase, "link-base", "", "base URL of generated payment links")
	cmd.Flags().Int64Var(&chainID, "chain-id", config.DefaultChainID, "chain id stamped on invoices")
	cmd.Flags().IntVar(&limit, "rate-limit", 60, "requests per minute allowed from one IP, 0 disables")
	return cmd
}

// resolveConfigPath picks the config file: flag, then PAYME_CONFIG, then the
// home directory default.
func resolveConfigPath(flag string, env config.Env) string {
	if flag != "" {
		return flag
	}
	if env.ConfigPath != "" {
		return env.ConfigPath
	}
	return config.DefaultPath()
}

// invoiceIDFromLink extracts the invoice id from a payment link. A bare id is
// returned as is.
func invoiceIDFromLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", errors.New("empty payment link")
	}
	if !strings.ContainsAny(link, "/?=") {
		return link, nil
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid payment link: %w", err)
	}
	id := strings.TrimSpace(u.Query().Get("invoiceId"))
	if id == "" {
		return "", fmt.Errorf("payment link has no invoiceId: %s", link)
	}
	return id, nil
}

func hostForLinks(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
