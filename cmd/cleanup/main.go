// Command cleanup reconciles the upload directory against the database.
// Document files are written before the submission transaction commits, so
// a mid-transaction failure can leave files no row references. Run this
// from cron to reclaim them; files younger than ORPHAN_GRACE are kept in
// case their transaction is still in flight.
package main

import (
	"context"
	"log"

	"careers/internal/config"
	"careers/internal/database"
	"careers/internal/domain/application"
	"careers/internal/domain/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := application.NewRepository(db)
	store := storage.New(cfg.UploadDir)

	referenced, err := repo.ReferencedPaths(context.Background())
	if err != nil {
		log.Fatalf("collect referenced paths failed: %v", err)
	}

	removed, err := store.Sweep(referenced, cfg.OrphanGrace)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	log.Printf("upload cleanup completed: removed=%d referenced=%d", removed, len(referenced))
}
