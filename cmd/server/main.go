package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/greenacesso/boleto-importer/internal/api"
	"github.com/greenacesso/boleto-importer/internal/bundle"
	"github.com/greenacesso/boleto-importer/internal/config"
	"github.com/greenacesso/boleto-importer/internal/ingestion"
	"github.com/greenacesso/boleto-importer/internal/logging"
	"github.com/greenacesso/boleto-importer/internal/repository"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to init db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Create repositories.
	lotRepo := repository.NewLotRepo(db)
	boletoRepo := repository.NewBoletoRepo(db)

	// Create services.
	ingestionSvc := ingestion.NewService(lotRepo, boletoRepo, cfg.LookupWorkers)
	extractor := bundle.NewExtractor(nil, cfg.FallbackLabels)
	bundleSvc := bundle.NewService(
		boletoRepo, extractor, cfg.OutputDir,
		repository.TieBreak(cfg.TieBreak), cfg.PageWorkers,
	)

	// Seed lots if the table is empty.
	ctx := context.Background()
	count, err := lotRepo.Count(ctx)
	if err != nil {
		slog.Error("failed to count lots", "error", err)
		os.Exit(1)
	}
	if count == 0 {
		slog.Info("lots table is empty, seeding from testdata")
		if err := seedLots(ctx, lotRepo); err != nil {
			slog.Warn("failed to seed lots", "error", err)
		}
	} else {
		slog.Info("lots already present, skipping seed", "count", count)
	}

	router := api.NewRouter(cfg, lotRepo, boletoRepo, ingestionSvc, bundleSvc)

	slog.Info("boleto importer listening",
		"addr", "http://localhost:"+cfg.Port,
		"api_base", "/api/v1",
	)

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func seedLots(ctx context.Context, repo *repository.LotRepo) error {
	// Try multiple possible locations for testdata.
	candidates := []string{
		"testdata/lots.json",
		filepath.Join(".", "testdata", "lots.json"),
	}

	// Also try to find relative to the executable.
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "lots.json"),
			filepath.Join(dir, "..", "..", "testdata", "lots.json"),
		)
	}

	var data []byte
	var loadErr error
	for _, path := range candidates {
		data, loadErr = os.ReadFile(path)
		if loadErr == nil {
			slog.Info("loaded lots", "path", path)
			break
		}
	}
	if loadErr != nil {
		return fmt.Errorf("could not find lots.json in any candidate path: %w", loadErr)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("unmarshal lots: %w", err)
	}

	for _, name := range names {
		if _, err := repo.Insert(ctx, ingestion.NormalizeLotName(name)); err != nil {
			return fmt.Errorf("insert lot %s: %w", name, err)
		}
	}

	slog.Info("seeded lots", "count", len(names))
	return nil
}
