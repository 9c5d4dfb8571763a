package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greenacesso/boleto-importer/internal/bundle"
	"github.com/greenacesso/boleto-importer/internal/config"
	"github.com/greenacesso/boleto-importer/internal/ingestion"
	"github.com/greenacesso/boleto-importer/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	cfg config.Config,
	lotRepo *repository.LotRepo,
	boletoRepo *repository.BoletoRepo,
	ingestionSvc *ingestion.Service,
	bundleSvc *bundle.Service,
) http.Handler {
	h := &Handlers{
		cfg:          cfg,
		lotRepo:      lotRepo,
		boletoRepo:   boletoRepo,
		ingestionSvc: ingestionSvc,
		bundleSvc:    bundleSvc,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/boletos/csv", h.ImportCSV)
		r.Post("/boletos/pdf", h.ImportBundle)
		r.Get("/boletos", h.ListBoletos)
		r.Get("/lots", h.ListLots)
	})

	return r
}
