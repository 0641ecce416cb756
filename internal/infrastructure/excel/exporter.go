// Package excel exporta reportes tabulares a xlsx con excelize.
package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
)

var _ ports.SpreadsheetExporter = (*Exporter)(nil)

// Exporter implementa ports.SpreadsheetExporter.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// XLSX escribe una hoja con encabezado en negrita fijo y columnas con ancho según contenido.
func (e *Exporter) XLSX(s ports.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(s.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("excel: nombre de hoja: %w", err)
	}

	header := make([]any, len(s.Headers))
	for i, h := range s.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("excel: encabezado: %w", err)
	}
	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}

	if len(s.Headers) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"2E6B3E"}, Pattern: 1},
		})
		if err != nil {
			return nil, fmt.Errorf("excel: estilo: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return nil, fmt.Errorf("excel: estilo encabezado: %w", err)
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return nil, fmt.Errorf("excel: inmovilizar encabezado: %w", err)
		}
		for i := range s.Headers {
			name, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetColWidth(sheet, name, name, columnWidth(s, i)); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName respeta las reglas de Excel: máximo 31 caracteres y sin []:*?/\.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Reporte"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

func columnWidth(s ports.Sheet, col int) float64 {
	width := len([]rune(s.Headers[col]))
	for _, row := range s.Rows {
		if col < len(row) {
			width = max(width, len([]rune(fmt.Sprint(row[col]))))
		}
	}
	return float64(min(max(width+2, 8), 60))
}
