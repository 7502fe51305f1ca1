// Command seed manages the stored portfolio document outside the API process:
// seeding an empty database, validating a seed file, and restoring archived
// snapshots from object storage.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/config"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/database"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/portfolio"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/storage"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var file string
	var force bool

	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed the portfolio document into MongoDB",
		Long: `Inserts the portfolio document when the collection is empty.
With --force an existing document is replaced (and archived when MinIO is configured).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := portfolio.LoadSeed(file)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(svc *portfolio.Service) error {
				if force {
					if err := svc.UpdatePortfolio(cmd.Context(), doc); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "portfolio replaced")
					return nil
				}
				inserted, err := svc.Seed(cmd.Context(), doc)
				if err != nil {
					return err
				}
				if inserted {
					fmt.Fprintln(cmd.OutOrStdout(), "portfolio seeded")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "portfolio already present, nothing to do")
				}
				return nil
			})
		},
	}
	root.PersistentFlags().StringVarP(&file, "file", "f", "", "YAML seed file (default: embedded seed)")
	root.Flags().BoolVar(&force, "force", false, "replace an existing portfolio document")

	root.AddCommand(newCheckCmd(&file), newArchivesCmd(), newRestoreCmd())
	return root
}

func newCheckCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a seed file without touching the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := portfolio.LoadSeed(*file)
			if err != nil {
				return err
			}
			// dry run against an in-memory store
			svc := portfolio.NewService(portfolio.NewMemoryRepository())
			if _, err := svc.Seed(cmd.Context(), doc); err != nil {
				return err
			}
			stored, err := svc.GetPortfolio(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), stored)
			return nil
		},
	}
}

func newArchivesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archives",
		Short: "List archived portfolio snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			st, err := storage.NewMinIOStorage(cmd.Context(), cfg.MinIO)
			if err != nil {
				return err
			}
			keys, err := st.ListArchives(cmd.Context(), "portfolio/")
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <key>",
		Short: "Replace the portfolio with an archived snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			st, err := storage.NewMinIOStorage(cmd.Context(), cfg.MinIO)
			if err != nil {
				return err
			}
			rc, err := st.DownloadFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("download %s: %w", args[0], err)
			}
			defer rc.Close()
			doc, err := decodeSnapshot(rc)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), func(svc *portfolio.Service) error {
				svc.WithArchiver(st)
				if err := svc.UpdatePortfolio(cmd.Context(), doc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", args[0])
				return nil
			})
		},
	}
}

// decodeSnapshot reads an archived JSON document and validates it.
func decodeSnapshot(r io.Reader) (*models.Portfolio, error) {
	var doc models.Portfolio
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// withService opens the configured store, ensures indexes and runs fn.
func withService(ctx context.Context, fn func(*portfolio.Service) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	store, err := database.OpenWithRetry(ctx, cfg.MongoDB, 3, time.Second)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	return fn(portfolio.NewService(portfolio.NewMongoRepository(store.Collection(database.PortfolioCollection))))
}

func printSummary(w io.Writer, doc *models.Portfolio) {
	fmt.Fprintf(w, "%s - %s\n", doc.Personal.Name, doc.Personal.Title)
	fmt.Fprintf(w, "skill categories: %d\n", len(doc.Skills))
	fmt.Fprintf(w, "experience: %d\n", len(doc.Experience))
	fmt.Fprintf(w, "projects: %d\n", len(doc.Projects))
	fmt.Fprintf(w, "education: %d, certifications: %d\n", len(doc.Credentials.Education), len(doc.Credentials.Certifications))
}
