package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/greenacesso/boleto-importer/internal/domain"
	"github.com/greenacesso/boleto-importer/internal/logging"
	"github.com/greenacesso/boleto-importer/internal/repository"
)

// CSVDelimiter is the field separator of the boleto import format.
const CSVDelimiter = ';'

// lotNameWidth is the fixed width of normalized lot names.
const lotNameWidth = 4

// ImportResult summarises a CSV batch import.
type ImportResult struct {
	Inserted  int `json:"inserted"`
	Discarded int `json:"discarded"`
}

// Service ingests boleto CSV batches: it normalizes and tokenizes the
// stream, resolves each record's lot against the ledger, and persists
// the validated subset as one transaction.
type Service struct {
	lots    *repository.LotRepo
	boletos *repository.BoletoRepo
	workers int
}

// NewService creates an ingestion service. workers bounds concurrent
// per-record lot lookups.
func NewService(lots *repository.LotRepo, boletos *repository.BoletoRepo, workers int) *Service {
	if workers <= 0 {
		workers = 8
	}
	return &Service{lots: lots, boletos: boletos, workers: workers}
}

// NormalizeLotName pads a raw unit identifier to the fixed 4-character
// zero-left-padded lot name ("17" becomes "0017").
func NormalizeLotName(unit string) string {
	if len(unit) >= lotNameWidth {
		return unit
	}
	return strings.Repeat("0", lotNameWidth-len(unit)) + unit
}

// ImportCSV runs the full CSV batch pipeline on an uploaded file. The
// file is deleted only after the batch persists. Per-record problems
// are logged and counted as discards; only stream or ledger failures
// abort the batch.
func (s *Service) ImportCSV(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}

	result, err := s.importRecords(ctx, f)
	f.Close()
	if err != nil {
		return nil, err
	}

	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("remove upload: %w", err)
	}
	return result, nil
}

func (s *Service) importRecords(ctx context.Context, r io.Reader) (*ImportResult, error) {
	logger := logging.FromContext(ctx)

	tok := NewTokenizer(
		NewQuoteStrippingReader(r, '"'),
		CSVDelimiter, CSVFields, 1,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var mu sync.Mutex
	var validated []domain.ValidatedBoleto
	discarded := 0

	discard := func(reason string, rec domain.RawRecord) {
		logger.Warn("record discarded", "reason", reason, "record", rec)
		mu.Lock()
		discarded++
		mu.Unlock()
	}

	for {
		rec, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Drain in-flight lookups before reporting the stream error.
			_ = g.Wait()
			return nil, fmt.Errorf("read record: %w", err)
		}

		g.Go(func() error {
			vb, reason, err := s.resolve(gctx, rec)
			if err != nil {
				return err
			}
			if vb == nil {
				discard(reason, rec)
				return nil
			}
			mu.Lock()
			validated = append(validated, *vb)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve batch: %w", err)
	}

	inserted, err := s.boletos.BulkInsert(ctx, validated)
	if err != nil {
		return nil, fmt.Errorf("persist batch: %w", err)
	}

	logger.Info("csv batch imported", "inserted", inserted, "discarded", discarded)
	return &ImportResult{Inserted: inserted, Discarded: discarded}, nil
}

// resolve validates one record and resolves its lot. A nil boleto with
// a reason means the record is discarded; an error aborts the batch.
func (s *Service) resolve(ctx context.Context, rec domain.RawRecord) (*domain.ValidatedBoleto, string, error) {
	payer := rec["payer_name"]
	unit := rec["unit"]
	amountStr := rec["amount"]
	paymentLine := rec["payment_line"]

	if payer == "" || unit == "" || amountStr == "" || paymentLine == "" {
		return nil, "missing required field", nil
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(amountStr), 64)
	if err != nil {
		return nil, "unparseable amount", nil
	}

	lotName := NormalizeLotName(unit)
	lot, err := s.lots.GetByName(ctx, lotName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "lot " + lotName + " not found", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup lot %s: %w", lotName, err)
	}

	return &domain.ValidatedBoleto{
		PayerName:   payer,
		LotID:       lot.ID,
		Amount:      amount,
		PaymentLine: paymentLine,
	}, "", nil
}
