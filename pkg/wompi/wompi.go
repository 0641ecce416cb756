// Package wompi contiene las firmas y URLs de la pasarela de pagos Wompi (Colombia).
package wompi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Estados de transacción reportados por Wompi.
const (
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"
	StatusVoided   = "VOIDED"
	StatusError    = "ERROR"
	StatusPending  = "PENDING"
)

// DefaultCheckoutURL URL base del checkout web.
const DefaultCheckoutURL = "https://checkout.wompi.co/p/"

// AmountInCents convierte un total en pesos a centavos.
func AmountInCents(total decimal.Decimal) int64 {
	return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// EventSignature firma de eventos: hex(HMAC-SHA256(secret, "id^status^amount_in_cents")).
func EventSignature(transactionID, status, amountInCents, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(transactionID + "^" + status + "^" + amountInCents))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyEventSignature compara en tiempo constante la firma recibida contra la esperada.
func VerifyEventSignature(received, transactionID, status, amountInCents, secret string) bool {
	expected := EventSignature(transactionID, status, amountInCents, secret)
	return hmac.Equal([]byte(strings.ToLower(strings.TrimSpace(received))), []byte(expected))
}

// IntegritySignature firma de integridad del widget: sha256(reference + amount + currency + secret).
func IntegritySignature(reference string, amountInCents int64, currency, integritySecret string) string {
	sum := sha256.Sum256([]byte(reference + strconv.FormatInt(amountInCents, 10) + currency + integritySecret))
	return hex.EncodeToString(sum[:])
}

// CheckoutParams datos para construir la URL del checkout en modo widget.
type CheckoutParams struct {
	PublicKey     string
	Currency      string
	AmountInCents int64
	Reference     string
	RedirectURL   string
	Signature     string
}

// CheckoutURL arma la URL del checkout web (base vacía = DefaultCheckoutURL).
func CheckoutURL(base string, p CheckoutParams) string {
	if base == "" {
		base = DefaultCheckoutURL
	}
	q := url.Values{}
	q.Set("mode", "widget")
	q.Set("public-key", p.PublicKey)
	q.Set("currency", p.Currency)
	q.Set("amount-in-cents", strconv.FormatInt(p.AmountInCents, 10))
	q.Set("reference", p.Reference)
	if p.Signature != "" {
		q.Set("signature:integrity", p.Signature)
	}
	if p.RedirectURL != "" {
		q.Set("redirect-url", p.RedirectURL)
	}
	return base + "?" + q.Encode()
}
