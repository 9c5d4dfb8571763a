package bundle

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

func buildBundle(t *testing.T, pageTexts []string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	for _, text := range pageTexts {
		doc.AddPage()
		doc.SetFont("Helvetica", "B", 20)
		doc.CellFormat(0, 20, text, "", 1, "C", false, 0, "")
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestSplitPreservesPageCountAndOrder(t *testing.T) {
	bundle := buildBundle(t, []string{
		"PAGINA BOLETO MARCIA CARVALHO",
		"PAGINA BOLETO JOSE DA SILVA",
		"PAGINA BOLETO MARCOS ROBERTO",
	})

	pages, err := Split(bundle)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	conf := model.NewDefaultConfiguration()
	for i, page := range pages {
		require.NotEmpty(t, page, "page %d", i)
		count, err := api.PageCount(bytes.NewReader(page), conf)
		require.NoError(t, err, "page %d", i)
		require.Equal(t, 1, count, "page %d", i)
	}
}

func TestSplitSinglePage(t *testing.T) {
	bundle := buildBundle(t, []string{"PAGINA BOLETO MARCIA CARVALHO"})

	pages, err := Split(bundle)
	require.NoError(t, err)
	require.Len(t, pages, 1)
}

func TestSplitRejectsGarbage(t *testing.T) {
	_, err := Split([]byte("not a pdf"))
	require.Error(t, err)
}

func TestSplitPagesAreIndependentBuffers(t *testing.T) {
	bundle := buildBundle(t, []string{"PAGINA BOLETO A", "PAGINA BOLETO B"})

	pages, err := Split(bundle)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// Mutating the source must not affect the extracted pages.
	saved := append([]byte(nil), pages[0]...)
	for i := range bundle {
		bundle[i] = 0
	}
	require.Equal(t, saved, pages[0])
}
