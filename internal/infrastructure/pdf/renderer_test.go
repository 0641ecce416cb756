package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

func TestMoney_FormatoPesos(t *testing.T) {
	assert.Equal(t, "$0", money(decimal.Zero))
	assert.Equal(t, "$950", money(decimal.NewFromInt(950)))
	assert.Equal(t, "$28.560", money(decimal.RequireFromString("28560.00")))
	assert.Equal(t, "$1.000.000", money(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-$1.000", money(decimal.NewFromInt(-1000)))
}

func TestSaleReceipt_GeneraPDF(t *testing.T) {
	sale := &entity.POSSale{
		SaleNumber:    "PR202509300001",
		OrderType:     entity.OrderTypePrincipal,
		PaymentMethod: entity.POSPaymentCash,
		Items: []entity.POSSaleItem{{
			ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(12000),
			IVAPercentage: decimal.NewFromInt(19),
		}},
		AmountReceived: decimal.NewFromInt(30000),
		CreatedAt:      time.Date(2025, 9, 30, 14, 30, 0, 0, time.UTC),
	}
	sale.RecalculateTotals()
	sale.ChangeAmount = sale.AmountReceived.Sub(sale.Total)

	out, err := NewRenderer().SaleReceipt(ports.ReceiptData{
		StoreName:     "NaturalMede",
		WarehouseName: "Tienda Laureles",
		Sale:          sale,
		ProductNames:  map[string]string{"p1": "Jabón de avena"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPurchaseOrder_GeneraPDF(t *testing.T) {
	p := &entity.Purchase{
		PurchaseNumber: "COMP-202503-0001",
		Status:         entity.PurchaseStatusPending,
		OrderDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Items: []entity.PurchaseItem{{
			ProductID: "p1", Quantity: 10, UnitCost: decimal.NewFromInt(8000),
			TaxPercentage: decimal.NewFromInt(19), DiscountPercentage: decimal.NewFromInt(10),
		}},
	}
	p.Items[0].Calculate()
	p.RecalculateTotals()

	out, err := NewRenderer().PurchaseOrder(ports.PurchaseOrderData{
		StoreName: "NaturalMede",
		Purchase:  p,
		Supplier:  &entity.Supplier{Name: "Aromas SAS", TaxID: "900123456-8"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderer_SinDocumento(t *testing.T) {
	_, err := NewRenderer().SaleReceipt(ports.ReceiptData{})
	assert.Error(t, err)
	_, err = NewRenderer().PurchaseOrder(ports.PurchaseOrderData{})
	assert.Error(t, err)
}
