package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/domain"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/excel"
	"github.com/jhoicas/naturalmede-api/internal/infrastructure/memory"
)

func newTestUseCase() *UseCase {
	uc := NewUseCase(memory.New(), excel.NewExporter(), nil, nil)
	uc.now = func() time.Time { return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC) }
	return uc
}

func TestDashboard_TiendaVacia(t *testing.T) {
	uc := newTestUseCase()

	d, err := uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.True(t, d.TodaySales.Amount.IsZero())
	assert.True(t, d.MonthSales.Amount.IsZero())
	assert.Zero(t, d.PendingOrders)
	assert.Zero(t, d.LowStockCount)
	assert.Empty(t, d.TopProducts)
	assert.Equal(t, uc.now(), d.GeneratedAt)
}

func TestExport_CSVConEncabezadosYNombreConFecha(t *testing.T) {
	uc := newTestUseCase()

	file, err := uc.Export(context.Background(), "", dto.ExportRequest{Report: ReportCustomers, Format: FormatCSV})
	require.NoError(t, err)

	assert.Equal(t, "customers_20260314_103000.csv", file.Filename)
	assert.Equal(t, contentTypeCSV, file.ContentType)
	rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Documento", rows[0][0])
}

func TestExport_XLSXPorDefecto(t *testing.T) {
	uc := newTestUseCase()

	file, err := uc.Export(context.Background(), "", dto.ExportRequest{Report: ReportInventory})
	require.NoError(t, err)

	assert.Equal(t, contentTypeXLSX, file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("PK")), "xlsx es un zip")
}

func TestExport_ReporteOFormatoInvalido(t *testing.T) {
	uc := newTestUseCase()
	ctx := context.Background()

	_, err := uc.Export(ctx, "", dto.ExportRequest{Report: "nomina"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Export(ctx, "", dto.ExportRequest{Report: ReportSales, Format: "pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
