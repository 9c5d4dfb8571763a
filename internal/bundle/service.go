package bundle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/greenacesso/boleto-importer/internal/domain"
	"github.com/greenacesso/boleto-importer/internal/logging"
	"github.com/greenacesso/boleto-importer/internal/repository"
)

// ImportResult aggregates the per-page outcomes of one bundle import.
type ImportResult struct {
	Pages            int                  `json:"pages"`
	Matched          int                  `json:"matched"`
	Unmatched        int                  `json:"unmatched"`
	ExtractionFailed int                  `json:"extraction_failed"`
	Outcomes         []domain.PageOutcome `json:"outcomes"`
}

// Service runs the bundle pipeline: split the uploaded PDF into pages,
// label each page, match labels against imported boletos, and write
// matched pages to the output directory named by the boleto id.
type Service struct {
	boletos   *repository.BoletoRepo
	extractor *Extractor
	split     func([]byte) ([][]byte, error)
	outputDir string
	tieBreak  repository.TieBreak
	workers   int
}

// NewService creates a bundle service. workers bounds concurrent page
// processing; tieBreak resolves ambiguous payer-name matches.
func NewService(
	boletos *repository.BoletoRepo,
	extractor *Extractor,
	outputDir string,
	tieBreak repository.TieBreak,
	workers int,
) *Service {
	if workers <= 0 {
		workers = 4
	}
	if tieBreak == "" {
		tieBreak = repository.TieBreakOldest
	}
	return &Service{
		boletos:   boletos,
		extractor: extractor,
		split:     Split,
		outputDir: outputDir,
		tieBreak:  tieBreak,
		workers:   workers,
	}
}

// ImportBundle processes an uploaded multi-page PDF. Unmatched and
// unlabeled pages are skipped and logged; the upload is deleted and a
// success result returned regardless of per-page misses. Only stream,
// ledger, or write failures abort the batch.
func (s *Service) ImportBundle(ctx context.Context, path string) (*ImportResult, error) {
	logger := logging.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	pages, err := s.split(data)
	if err != nil {
		return nil, fmt.Errorf("split bundle: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	outcomes := make([]domain.PageOutcome, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range pages {
		i := i
		g.Go(func() error {
			outcome, err := s.processPage(ctx, i, pages[i])
			if err != nil {
				return err
			}
			outcomes[i] = *outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process pages: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("remove upload: %w", err)
	}

	result := &ImportResult{Pages: len(pages), Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case domain.PageMatched:
			result.Matched++
		case domain.PageUnmatched:
			result.Unmatched++
		case domain.PageExtractionFailed:
			result.ExtractionFailed++
		}
	}

	logger.Info("bundle imported",
		"pages", result.Pages,
		"matched", result.Matched,
		"unmatched", result.Unmatched,
		"extraction_failed", result.ExtractionFailed,
	)
	return result, nil
}

func (s *Service) processPage(ctx context.Context, index int, page []byte) (*domain.PageOutcome, error) {
	logger := logging.FromContext(ctx)

	label, ok := s.extractor.Label(index, page)
	if !ok {
		logger.Warn("page label extraction failed", "page", index)
		return &domain.PageOutcome{
			PageIndex: index,
			Status:    domain.PageExtractionFailed,
		}, nil
	}

	boleto, err := s.boletos.FindByPayerName(ctx, label, s.tieBreak)
	if errors.Is(err, sql.ErrNoRows) {
		logger.Warn("no boleto for page label", "page", index, "label", label)
		return &domain.PageOutcome{
			PageIndex: index,
			Label:     label,
			Status:    domain.PageUnmatched,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup boleto %q: %w", label, err)
	}

	// Overwrites any prior file of the same name, so retries are
	// idempotent.
	out := filepath.Join(s.outputDir, strconv.FormatInt(boleto.ID, 10)+".pdf")
	if err := os.WriteFile(out, page, 0o644); err != nil {
		return nil, fmt.Errorf("write page %d: %w", index, err)
	}

	return &domain.PageOutcome{
		PageIndex: index,
		Label:     label,
		BoletoID:  boleto.ID,
		Status:    domain.PageMatched,
	}, nil
}
