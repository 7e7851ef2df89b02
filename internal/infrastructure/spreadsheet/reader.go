// Package spreadsheet lee planillas CSV/XLSX de los marketplaces y exporta los reportes en CSV
// y XLSX.
package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser implementa ports.SheetParser.
type Parser struct{}

// NewParser crea el lector de planillas.
func NewParser() *Parser { return &Parser{} }

// Parse lee el archivo según su extensión (.xlsx, .csv o .txt). En XLSX se usa la primera hoja.
func (p *Parser) Parse(filename string, r io.Reader) (*ports.Table, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r)
	case ".csv", ".txt":
		records, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	return toTable(records), nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx inválido: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: el archivo no tiene hojas", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: leer hoja %q: %v", domain.ErrInvalidInput, sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		// exportaciones de Excel en Windows: Windows-1252
		if data, err = charmap.Windows1252.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("%w: codificación de csv: %v", domain.ErrInvalidInput, err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv inválido: %v", domain.ErrInvalidInput, err)
	}
	return records, nil
}

// detectDelimiter elige entre ';', ',' y tabulación según cuál aparece más en la primera línea.
func detectDelimiter(data []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	if !sc.Scan() {
		return ','
	}
	line := sc.Text()
	best, bestCount := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// toTable usa la primera fila no vacía como encabezados. Encabezados vacíos se nombran por
// posición y los repetidos reciben sufijo para que cada columna sea direccionable.
func toTable(records [][]string) *ports.Table {
	t := &ports.Table{Headers: []string{}, Rows: []map[string]string{}}
	start := -1
	for i, rec := range records {
		if !blankRecord(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return t
	}

	seen := make(map[string]int)
	for i, h := range records[start] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Coluna %d", i+1)
		}
		seen[h]++
		if seen[h] > 1 {
			h = fmt.Sprintf("%s (%d)", h, seen[h])
		}
		t.Headers = append(t.Headers, h)
	}

	for _, rec := range records[start+1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
