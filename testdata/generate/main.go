// Command generate writes the boleto test fixtures: lots.json,
// boletos.csv (quoted semicolon-delimited lines) and boletos.pdf, a
// three-page bundle carrying one "PAGINA BOLETO <NAME>" marker per
// page.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

var payers = []struct {
	name string
	unit string
	amt  string
	line string
}{
	{"JOSE DA SILVA", "17", "182.54", "123456123456123456"},
	{"MARCOS ROBERTO", "18", "178.20", "123456123456123456"},
	{"MARCIA CARVALHO", "19", "128.00", "123456123456123456"},
}

func main() {
	baseDir := findTestdataDir()

	if err := writeLots(filepath.Join(baseDir, "lots.json")); err != nil {
		fmt.Fprintf(os.Stderr, "lots.json: %v\n", err)
		os.Exit(1)
	}
	if err := writeCSV(filepath.Join(baseDir, "boletos.csv")); err != nil {
		fmt.Fprintf(os.Stderr, "boletos.csv: %v\n", err)
		os.Exit(1)
	}
	if err := writePDF(filepath.Join(baseDir, "boletos.pdf")); err != nil {
		fmt.Fprintf(os.Stderr, "boletos.pdf: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("fixtures written to %s\n", baseDir)
}

func findTestdataDir() string {
	for _, dir := range []string{"testdata", filepath.Join("..", ".."), "."} {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			if _, err := os.Stat(filepath.Join(dir, "lots.json")); err == nil {
				return dir
			}
		}
	}
	return "testdata"
}

func writeLots(path string) error {
	return os.WriteFile(path, []byte(`["0017", "0018", "0019"]`+"\n"), 0o644)
}

func writeCSV(path string) error {
	content := "nome;unidade;valor;linha_digitavel\n"
	for _, p := range payers {
		content += fmt.Sprintf("\"%s;%s;%s;%s\"\n", p.name, p.unit, p.amt, p.line)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func writePDF(path string) error {
	doc := fpdf.New("P", "mm", "A4", "")

	// Page order is the fallback-label order: MARCIA, JOSE, MARCOS.
	order := []int{2, 0, 1}
	for _, idx := range order {
		doc.AddPage()
		doc.SetFont("Helvetica", "B", 20)
		doc.CellFormat(0, 20, "PAGINA BOLETO "+payers[idx].name, "", 1, "C", false, 0, "")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return doc.Output(f)
}
