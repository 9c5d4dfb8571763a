// Package report renders boleto listings as PDF documents.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/greenacesso/boleto-importer/internal/domain"
)

// Build renders a listing report of the given boletos and returns the
// PDF bytes. Callers encode the result (base64) for transport.
func Build(boletos []domain.Boleto) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "Relatorio de Boletos", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(15, 7, "ID", "1", 0, "L", false, 0, "")
	doc.CellFormat(60, 7, "Nome Sacado", "1", 0, "L", false, 0, "")
	doc.CellFormat(20, 7, "Lote", "1", 0, "L", false, 0, "")
	doc.CellFormat(25, 7, "Valor", "1", 0, "R", false, 0, "")
	doc.CellFormat(70, 7, "Linha Digitavel", "1", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	for _, b := range boletos {
		doc.CellFormat(15, 6, fmt.Sprintf("%d", b.ID), "1", 0, "L", false, 0, "")
		doc.CellFormat(60, 6, b.PayerName, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 6, fmt.Sprintf("%d", b.LotID), "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 6, fmt.Sprintf("%.2f", b.Amount), "1", 0, "R", false, 0, "")
		doc.CellFormat(70, 6, b.PaymentLine, "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
