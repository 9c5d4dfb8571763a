package ingestion

import (
	"bufio"
	"io"
	"strings"

	"github.com/greenacesso/boleto-importer/internal/domain"
)

// CSVFields is the fixed column order of the boleto import format.
var CSVFields = []string{"payer_name", "unit", "amount", "payment_line"}

// Tokenizer splits a normalized stream into RawRecords by positional
// assignment against a fixed field list, one record per physical line.
// The normalizer has already handled the only quoting convention the
// format defines, so leftover quote characters are ordinary field
// bytes and never span lines. Short rows yield records with missing
// keys; validation happens downstream.
type Tokenizer struct {
	scanner   *bufio.Scanner
	delimiter string
	fields    []string
	skip      int
}

// NewTokenizer reads delimited records from r. skipLines leading lines
// (the header) are discarded before the first record.
func NewTokenizer(r io.Reader, delimiter rune, fields []string, skipLines int) *Tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Tokenizer{
		scanner:   sc,
		delimiter: string(delimiter),
		fields:    fields,
		skip:      skipLines,
	}
}

// Next returns the next RawRecord, or io.EOF when the stream ends.
// Blank lines are skipped.
func (t *Tokenizer) Next() (domain.RawRecord, error) {
	for t.scanner.Scan() {
		if t.skip > 0 {
			t.skip--
			continue
		}
		line := t.scanner.Text()
		if line == "" {
			continue
		}

		parts := strings.Split(line, t.delimiter)
		rec := make(domain.RawRecord, len(t.fields))
		for i, name := range t.fields {
			if i >= len(parts) {
				break
			}
			rec[name] = parts[i]
		}
		return rec, nil
	}

	if err := t.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
