package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesmatrix/accounting_backend/internal/dto"
)

func bindInvoice(t *testing.T, body string) (dto.InvoiceDocument, error) {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	var doc dto.InvoiceDocument
	err := binding.JSON.Bind(req, &doc)
	return doc, err
}

func TestDecimalNonNegBinding(t *testing.T) {
	registerCustomValidators()

	t.Run("positive tax accepted", func(t *testing.T) {
		doc, err := bindInvoice(t, `{"date":"2025-03-14T00:00:00Z","netAmount":"1000.00","taxAmount":"200.00"}`)
		require.NoError(t, err)
		require.NotNil(t, doc.TaxAmount)
		assert.Equal(t, "200", doc.TaxAmount.String())
	})

	t.Run("zero tax accepted", func(t *testing.T) {
		_, err := bindInvoice(t, `{"date":"2025-03-14T00:00:00Z","netAmount":"1000.00","taxAmount":"0"}`)
		assert.NoError(t, err)
	})

	t.Run("omitted tax accepted", func(t *testing.T) {
		_, err := bindInvoice(t, `{"date":"2025-03-14T00:00:00Z","netAmount":"1000.00"}`)
		assert.NoError(t, err)
	})

	t.Run("negative tax rejected", func(t *testing.T) {
		_, err := bindInvoice(t, `{"date":"2025-03-14T00:00:00Z","netAmount":"1000.00","taxAmount":"-20.00"}`)
		assert.Error(t, err)
	})

	t.Run("negative cost of goods rejected", func(t *testing.T) {
		_, err := bindInvoice(t, `{"date":"2025-03-14T00:00:00Z","netAmount":"1000.00","costOfGoods":"-500.00"}`)
		assert.Error(t, err)
	})
}
