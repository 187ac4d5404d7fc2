package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"telegram-scam-guard/internal/config"
	"telegram-scam-guard/internal/domain/model"
	pg "telegram-scam-guard/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	force := flag.Bool("force", false, "overwrite existing keyword tables")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	repo := pg.NewPostgresCategoryRepo(pool)

	// If categories already exist, do nothing unless -force
	existing, err := repo.ListAll(ctx, nil)
	if err != nil {
		log.Fatalf("list categories: %v", err)
	}
	if len(existing) > 0 && !*force {
		fmt.Printf("%d categories already present. No changes (use -force to overwrite).\n", len(existing))
		for _, c := range existing {
			fmt.Printf("  - %s (%d keywords, %d hindi)\n", c.Label, len(c.Keywords), len(c.HindiKeywords))
		}
		return
	}

	for _, c := range model.BuiltinCategories() {
		if err := repo.Save(ctx, nil, c); err != nil {
			log.Fatalf("save category %q: %v", c.Label, err)
		}
		fmt.Printf("seeded: %s (%d keywords, %d hindi)\n", c.Label, len(c.Keywords), len(c.HindiKeywords))
	}

	fmt.Println("✅ Seeding complete.")
}
