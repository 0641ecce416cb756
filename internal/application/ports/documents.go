package ports

import "github.com/jhoicas/naturalmede-api/internal/domain/entity"

// ReceiptData datos para el recibo de una venta POS.
type ReceiptData struct {
	StoreName     string
	WarehouseName string
	Sale          *entity.POSSale
	CustomerName  string
	ProductNames  map[string]string
}

// PurchaseOrderData datos para la orden de compra impresa.
type PurchaseOrderData struct {
	StoreName     string
	Purchase      *entity.Purchase
	Supplier      *entity.Supplier
	WarehouseName string
	ProductNames  map[string]string
}

// PDFRenderer genera documentos PDF.
type PDFRenderer interface {
	SaleReceipt(data ReceiptData) ([]byte, error)
	PurchaseOrder(data PurchaseOrderData) ([]byte, error)
}

// Sheet tabla genérica a exportar.
type Sheet struct {
	Title   string
	Headers []string
	Rows    [][]any
}

// SpreadsheetExporter exporta tablas a xlsx.
type SpreadsheetExporter interface {
	XLSX(sheet Sheet) ([]byte, error)
}
