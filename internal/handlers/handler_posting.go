package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/middleware"
)

const idempotencyKeyHeader = "Idempotency-Key"

// postingHandler handles the document posting endpoints, the only write
// path into the ledger.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: ps}
}

// registerPostingRoutes registers one endpoint per document type plus the
// reversal endpoint, all under a tenant-scoped group.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	documents := rg.Group("/documents", middleware.RequireOperation(domain.OpPostDocument))
	{
		documents.POST("/invoices", h.postInvoice)
		documents.POST("/bills", h.postBill)
		documents.POST("/payments", h.postPayment)
		documents.POST("/bill-payments", h.postBillPayment)
		documents.POST("/goods-receipts", h.postGoodsReceipt)
		documents.POST("/stock-transfers", h.postStockTransfer)
		documents.POST("/journals", h.postManualJournal)
	}

	rg.POST("/entries/:entryID/reverse", middleware.RequireOperation(domain.OpReverseEntry), h.reverseEntry)
}

// post runs the shared posting flow once the document is bound.
func (h *postingHandler) post(c *gin.Context, doc dto.Document) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	key := c.GetHeader(idempotencyKeyHeader)
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Idempotency-Key header is required"})
		return
	}

	entry, err := h.postingService.PostDocument(c.Request.Context(), tc, key, doc)
	if err != nil {
		respondServiceError(c, err, "Failed to post document")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// postInvoice godoc
// @Summary Post a sales invoice
// @Description Converts an invoice into a balanced journal entry: receivable against revenue and output VAT, optionally with the direct stock sync.
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param Idempotency-Key header string true "Client-chosen idempotency key"
// @Param invoice body dto.InvoiceDocument true "Invoice"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Idempotency key reused with a different payload"
// @Failure 422 {object} ErrorResponse "Validation or locked period"
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/invoices [post]
func (h *postingHandler) postInvoice(c *gin.Context) {
	var doc dto.InvoiceDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.post(c, doc)
}

// postBill godoc
// @Summary Post a vendor bill
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param Idempotency-Key header string true "Client-chosen idempotency key"
// @Param bill body dto.BillDocument true "Bill"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/bills [post]
func (h *postingHandler) postBill(c *gin.Context) {
	var doc dto.BillDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.post(c, doc)
}

// postPayment godoc
// @Summary Post a customer payment
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param Idempotency-Key header string true "Client-chosen idempotency key"
// @Param payment body dto.PaymentDocument true "Payment"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/payments [post]
func (h *postingHandler) postPayment(c *gin.Context) {
	var doc dto.PaymentDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.post(c, doc)
}

// postBillPayment godoc
// @Summary Post a vendor bill payment
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param Idempotency-Key header string true "Client-chosen idempotency key"
// @Param payment body dto.BillPaymentDocument true "Bill payment"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/bill-payments [post]
func (h *postingHandler) postBillPayment(c *gin.Context) {
	var doc dto.BillPaymentDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.post(c, doc)
}

// postGoodsReceipt godoc
// @Summary Post a goods receipt
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param Idempotency-Key header string true "Client-chosen idempotency key"
// @Param receipt body dto.GoodsReceiptDocument true "Goods receipt"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/goods-receipts [post]
func (h *postingHandler) postGoodsReceipt(c *gin.Context) {
	var doc dto.GoodsReceiptDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.post(c, doc)
}

// postStockTransfer godoc
// @Summary Post a stock transfer
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param Idempotency-Key header string true "Client-chosen idempotency key"
// @Param transfer body dto.StockTransferDocument true "Stock transfer"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/stock-transfers [post]
func (h *postingHandler) postStockTransfer(c *gin.Context) {
	var doc dto.StockTransferDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.post(c, doc)
}

// postManualJournal godoc
// @Summary Post a manual journal
// @Description Posts caller-supplied lines; the engine validates balance rather than deriving lines.
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param Idempotency-Key header string true "Client-chosen idempotency key"
// @Param journal body dto.ManualJournalDocument true "Manual journal"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Unbalanced lines or locked period"
// @Security BearerAuth
// @Router /tenants/{tenantID}/documents/journals [post]
func (h *postingHandler) postManualJournal(c *gin.Context) {
	var doc dto.ManualJournalDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	h.post(c, doc)
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Appends a mirror-image reversing entry dated now and marks the original REVERSED.
// @Tags documents
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entryID path string true "Entry ID to reverse"
// @Param Idempotency-Key header string true "Client-chosen idempotency key"
// @Param reversal body dto.ReverseEntryRequest false "Optional memo"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry already reversed"
// @Failure 422 {object} ErrorResponse "Reversal of a reversal"
// @Security BearerAuth
// @Router /tenants/{tenantID}/entries/{entryID}/reverse [post]
func (h *postingHandler) reverseEntry(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	key := c.GetHeader(idempotencyKeyHeader)
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Idempotency-Key header is required"})
		return
	}

	var req dto.ReverseEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	entry, err := h.postingService.ReverseEntry(c.Request.Context(), tc, key, c.Param("entryID"), req.Memo)
	if err != nil {
		respondServiceError(c, err, "Failed to reverse entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
