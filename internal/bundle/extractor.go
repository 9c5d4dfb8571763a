package bundle

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// labelPattern captures the payer name following the marker phrase
// printed on every boleto page.
var labelPattern = regexp.MustCompile(`(?i)PAGINA BOLETO\s+(.+)`)

// TextExtractor pulls a plain-text blob from a single-page PDF.
type TextExtractor func(page []byte) (string, error)

// ExtractText is the default TextExtractor, backed by best-effort PDF
// text extraction. The underlying parser can panic on malformed
// documents; that is recovered and reported as an error.
func ExtractText(page []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(page), int64(len(page)))
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return sb.String(), nil
}

// Extractor derives the identifying label of a single-page boleto.
// Probabilistic text extraction is tried first; when it fails or finds
// no marker, the configured positional fallback labels take over.
type Extractor struct {
	extract  TextExtractor
	fallback []string
}

// NewExtractor builds an Extractor. A nil extract uses ExtractText.
// fallback maps page index to label for pages whose text cannot be
// extracted, ordered by index.
func NewExtractor(extract TextExtractor, fallback []string) *Extractor {
	if extract == nil {
		extract = ExtractText
	}
	return &Extractor{extract: extract, fallback: fallback}
}

// Label returns the label of the page at pageIndex, or false when
// neither extraction nor the fallback table can name it.
func (e *Extractor) Label(pageIndex int, page []byte) (string, bool) {
	text, err := e.extract(page)
	if err == nil {
		if m := labelPattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}

	if pageIndex >= 0 && pageIndex < len(e.fallback) {
		return e.fallback[pageIndex], true
	}
	return "", false
}
