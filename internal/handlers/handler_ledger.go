package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/middleware"
)

// ledgerHandler handles read access to the append-only ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers ledger read routes under a tenant-scoped group.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	entries := rg.Group("/entries", middleware.RequireOperation(domain.OpReadLedger))
	{
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
	}
	rg.GET("/ledger/lines", middleware.RequireOperation(domain.OpReadLedger), h.queryLines)
}

// listEntries godoc
// @Summary List journal entries
// @Description Returns entries newest first with token pagination. Reversed entries and reversals are hidden unless includeReversals is set.
// @Tags ledger
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param nextToken query string false "Pagination token from a previous page"
// @Param includeReversals query bool false "Include reversed entries and their reversals"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Security BearerAuth
// @Router /tenants/{tenantID}/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), tc, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags ledger
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), tc, c.Param("entryID"))
	if err != nil {
		respondServiceError(c, err, "Failed to get entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// queryLines godoc
// @Summary Query ledger lines
// @Description Returns journal lines in posted order, filterable by account and entry date range.
// @Tags ledger
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID query string false "Filter to one account"
// @Param from query string false "Earliest entry date (YYYY-MM-DD)"
// @Param to query string false "Latest entry date (YYYY-MM-DD)"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.LedgerQueryResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/ledger/lines [get]
func (h *ledgerHandler) queryLines(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var params dto.LedgerQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.QueryLines(c.Request.Context(), tc, params)
	if err != nil {
		respondServiceError(c, err, "Failed to query ledger lines")
		return
	}

	c.JSON(http.StatusOK, resp)
}
