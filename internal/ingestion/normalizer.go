package ingestion

// normalizer.go provides a streaming reader that undoes the upstream
// export quirk of wrapping every CSV line in one pair of quotes.
//
// The reader is chunk-agnostic: lines split across Read calls are
// buffered and recombined, so it can sit directly on top of a file or
// network stream.

import (
	"bytes"
	"io"
)

// QuoteStrippingReader wraps an io.Reader and removes exactly one
// leading and one trailing quote character from each line that is
// fully wrapped in them. All other lines pass through unchanged, as
// does a line consisting of a single quote character. Line order and
// newline bytes (LF or CRLF) are preserved.
type QuoteStrippingReader struct {
	reader io.Reader
	quote  byte

	// out holds normalized bytes not yet consumed by Read.
	out []byte
	// partial holds an incomplete line carried across chunks.
	partial []byte
	eof     bool
}

// NewQuoteStrippingReader creates a normalizer for the given quote
// character (typically '"').
func NewQuoteStrippingReader(r io.Reader, quote byte) *QuoteStrippingReader {
	return &QuoteStrippingReader{reader: r, quote: quote}
}

// Read implements io.Reader.
func (q *QuoteStrippingReader) Read(p []byte) (int, error) {
	for len(q.out) == 0 {
		if q.eof {
			return 0, io.EOF
		}
		if err := q.fill(); err != nil && err != io.EOF {
			return 0, err
		}
	}

	n := copy(p, q.out)
	q.out = q.out[n:]
	return n, nil
}

// fill reads one chunk from the underlying reader and normalizes every
// complete line it contains.
func (q *QuoteStrippingReader) fill() error {
	chunk := make([]byte, 4096)
	n, err := q.reader.Read(chunk)
	if n > 0 {
		q.partial = append(q.partial, chunk[:n]...)
	}

	for {
		idx := bytes.IndexByte(q.partial, '\n')
		if idx < 0 {
			break
		}
		q.out = append(q.out, normalizeLine(q.partial[:idx], q.quote)...)
		q.out = append(q.out, '\n')
		q.partial = q.partial[idx+1:]
	}

	if err == io.EOF {
		q.eof = true
		// Final line without a trailing newline.
		if len(q.partial) > 0 {
			q.out = append(q.out, normalizeLine(q.partial, q.quote)...)
			q.partial = nil
		}
	}
	return err
}

// normalizeLine strips one enclosing quote pair from a single line.
// The line excludes the newline but may carry a trailing CR, which is
// preserved outside the quote check.
func normalizeLine(line []byte, quote byte) []byte {
	body := line
	var cr bool
	if len(body) > 0 && body[len(body)-1] == '\r' {
		body = body[:len(body)-1]
		cr = true
	}

	// A lone quote character must not underflow.
	if len(body) >= 2 && body[0] == quote && body[len(body)-1] == quote {
		body = body[1 : len(body)-1]
	}

	if cr {
		out := make([]byte, 0, len(body)+1)
		out = append(out, body...)
		return append(out, '\r')
	}
	return body
}
