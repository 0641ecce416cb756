package wompi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSignature_HMACSobreCadena(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("secreto"))
	mac.Write([]byte("tx-123^APPROVED^1000000"))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, EventSignature("tx-123", "APPROVED", "1000000", "secreto"))
	assert.True(t, VerifyEventSignature(strings.ToUpper(want), "tx-123", "APPROVED", "1000000", "secreto"))
	assert.False(t, VerifyEventSignature(want, "tx-123", "DECLINED", "1000000", "secreto"))
	assert.False(t, VerifyEventSignature("", "tx-123", "APPROVED", "1000000", "secreto"))
}

func TestIntegritySignature(t *testing.T) {
	sum := sha256.Sum256([]byte("PR2025093000011000000COPintegridad"))
	assert.Equal(t, hex.EncodeToString(sum[:]), IntegritySignature("PR202509300001", 1000000, "COP", "integridad"))
}

func TestAmountInCents(t *testing.T) {
	assert.Equal(t, int64(1000000), AmountInCents(decimal.RequireFromString("10000")))
	assert.Equal(t, int64(1999), AmountInCents(decimal.RequireFromString("19.99")))
}

func TestCheckoutURL(t *testing.T) {
	raw := CheckoutURL("", CheckoutParams{
		PublicKey: "pub_test_1", Currency: "COP", AmountInCents: 50000, Reference: "AU202501010002",
	})
	require.True(t, strings.HasPrefix(raw, DefaultCheckoutURL+"?"))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "widget", q.Get("mode"))
	assert.Equal(t, "pub_test_1", q.Get("public-key"))
	assert.Equal(t, "50000", q.Get("amount-in-cents"))
	assert.Equal(t, "AU202501010002", q.Get("reference"))
	assert.Empty(t, q.Get("redirect-url"))
}
