package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flicky/printdrop/internal/repository"
	"github.com/flicky/printdrop/internal/seed"
	"github.com/flicky/printdrop/internal/service"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := connectDB(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := repository.Migrate(ctx, pool)
			if err != nil {
				return err
			}
			for _, name := range applied {
				log.Info("applied migration", "name", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", len(applied))
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and products into the catalog",
		Long: `Seed upserts categories by slug and products by category and name.
Without --file the catalog bundled with the binary is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(file)
			if err != nil {
				return err
			}

			cfg, log, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := connectDB(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			categoryRepo := repository.NewCategoryRepository(pool)
			productRepo := repository.NewProductRepository(pool)
			res, err := seed.Apply(ctx, categoryRepo, productRepo, catalog)
			if err != nil {
				return err
			}

			// A stale cache would hide the new catalog until its TTL runs out.
			if redisClient, err := connectRedis(ctx, cfg.Redis); err != nil {
				log.Warn("skipping cache invalidation", "error", err)
			} else {
				defer redisClient.Close()
				catalogSvc := service.NewCatalogService(categoryRepo, productRepo, redisClient)
				catalogSvc.InvalidateCategories(ctx)
				for _, id := range res.ProductIDs {
					catalogSvc.InvalidateProduct(ctx, id)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d products\n", res.Categories, len(res.ProductIDs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file")
	return cmd
}

func loadCatalog(path string) (*seed.Catalog, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return seed.Load(f)
}

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage catalog products",
	}

	var active bool
	setActive := &cobra.Command{
		Use:   "set-active <product-id>",
		Short: "List or unlist a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			return withCatalog(cmd.Context(), func(ctx context.Context, svc *service.CatalogService) error {
				if err := svc.SetProductActive(ctx, id, active); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "product %s active=%t\n", id, active)
				return nil
			})
		},
	}
	setActive.Flags().BoolVar(&active, "active", true, "Whether the product is listed")
	cmd.AddCommand(setActive)
	return cmd
}

func withCatalog(ctx context.Context, fn func(context.Context, *service.CatalogService) error) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	pool, err := connectDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	svc := service.NewCatalogService(
		repository.NewCategoryRepository(pool),
		repository.NewProductRepository(pool),
		redisClient,
	)
	return fn(ctx, svc)
}
