package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/greenacesso/boleto-importer/internal/bundle"
	"github.com/greenacesso/boleto-importer/internal/config"
	"github.com/greenacesso/boleto-importer/internal/ingestion"
	"github.com/greenacesso/boleto-importer/internal/logging"
	"github.com/greenacesso/boleto-importer/internal/report"
	"github.com/greenacesso/boleto-importer/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	cfg          config.Config
	lotRepo      *repository.LotRepo
	boletoRepo   *repository.BoletoRepo
	ingestionSvc *ingestion.Service
	bundleSvc    *bundle.Service
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// saveUpload writes the multipart "file" field to the upload dir under
// a fresh name, after checking the original extension. The returned
// path is owned by the caller's batch, which deletes it on success.
func (h *Handlers) saveUpload(r *http.Request, ext string) (string, error) {
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		return "", fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("file field is required: %w", err)
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(header.Filename)) != ext {
		return "", fmt.Errorf("invalid extension, expected %s", ext)
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(h.cfg.UploadDir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

// --- ImportCSV ---

func (h *Handlers) ImportCSV(w http.ResponseWriter, r *http.Request) {
	path, err := h.saveUpload(r, ".csv")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.ingestionSvc.ImportCSV(r.Context(), path)
	if err != nil {
		logging.FromContext(r.Context()).Error("csv import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process CSV file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "boletos imported successfully",
		"inserted":  result.Inserted,
		"discarded": result.Discarded,
	})
}

// --- ImportBundle ---

func (h *Handlers) ImportBundle(w http.ResponseWriter, r *http.Request) {
	path, err := h.saveUpload(r, ".pdf")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.bundleSvc.ImportBundle(r.Context(), path)
	if err != nil {
		logging.FromContext(r.Context()).Error("bundle import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process PDF file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "bundle imported and pages split successfully",
		"pages":             result.Pages,
		"matched":           result.Matched,
		"unmatched":         result.Unmatched,
		"extraction_failed": result.ExtractionFailed,
		"outcomes":          result.Outcomes,
	})
}

// --- ListBoletos ---

func (h *Handlers) ListBoletos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.BoletoFilter{
		Name:      q.Get("name"),
		MinAmount: parseFloatPtr(q.Get("min_amount")),
		MaxAmount: parseFloatPtr(q.Get("max_amount")),
		Page:      parseIntDefault(q.Get("page"), 1),
		Limit:     parseIntDefault(q.Get("limit"), 50),
	}
	if s := q.Get("lot_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.LotID = &id
		}
	}

	if q.Get("report") == "1" {
		// The report covers the whole filtered set, not one page.
		filter.Page = 1
		filter.Limit = 1 << 20
		boletos, _, err := h.boletoRepo.List(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pdfBytes, err := report.Build(boletos)
		if err != nil {
			logging.FromContext(r.Context()).Error("report build failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to generate report")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"base64": base64.StdEncoding.EncodeToString(pdfBytes),
		})
		return
	}

	boletos, total, err := h.boletoRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"boletos": boletos,
		"total":   total,
		"page":    filter.Page,
		"limit":   filter.Limit,
	})
}

// --- ListLots ---

func (h *Handlers) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.lotRepo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"lots": lots})
}
