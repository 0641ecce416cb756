package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
)

func TestXLSX_EscribeEncabezadoYFilas(t *testing.T) {
	out, err := NewExporter().XLSX(ports.Sheet{
		Title:   "Inventario",
		Headers: []string{"SKU", "Producto", "Cantidad", "Valor"},
		Rows: [][]any{
			{"JAB-001", "Jabón de avena", 10, 70000.0},
			{"TOTAL", "", "", 70000.0},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventario"}, f.GetSheetList())
	rows, err := f.GetRows("Inventario")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"SKU", "Producto", "Cantidad", "Valor"}, rows[0])
	assert.Equal(t, "Jabón de avena", rows[1][1])
	assert.Equal(t, "10", rows[1][2])
	assert.Equal(t, "TOTAL", rows[2][0])
}

func TestSheetName_ReglasDeExcel(t *testing.T) {
	assert.Equal(t, "Reporte", sheetName("  "))
	assert.Equal(t, "Ventas 2025-09", sheetName("Ventas 2025/09"))
	assert.Len(t, []rune(sheetName(strings.Repeat("á", 40))), 31)
}
