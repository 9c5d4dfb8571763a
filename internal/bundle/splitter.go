// Package bundle decomposes multi-page boleto PDFs into single pages,
// labels each page, and files matched pages under the ledger id of the
// boleto they belong to.
package bundle

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Split decomposes a multi-page PDF into standalone single-page PDFs,
// one self-contained buffer per page, in original page order.
func Split(data []byte) ([][]byte, error) {
	conf := model.NewDefaultConfiguration()
	rs := bytes.NewReader(data)

	count, err := api.PageCount(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	pages := make([][]byte, 0, count)
	for i := 1; i <= count; i++ {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek page %d: %w", i, err)
		}
		var buf bytes.Buffer
		if err := api.Trim(rs, &buf, []string{strconv.Itoa(i)}, conf); err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}
