package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/middleware"
)

// reportingHandler handles the derived financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers report routes under a tenant-scoped group.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports", middleware.RequireOperation(domain.OpReadReports))
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/profit-and-loss", h.profitAndLoss)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/vat-return", h.vatReturn)
	}
}

// trialBalance godoc
// @Summary Trial balance
// @Description Per-account debit and credit totals as of a date (defaults to now).
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param asOf query string false "As-of date (YYYY-MM-DD)"
// @Success 200 {array} domain.TrialBalanceRow
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	asOf := time.Now()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	rows, err := h.reportingService.GetTrialBalance(c.Request.Context(), tc, asOf)
	if err != nil {
		respondServiceError(c, err, "Failed to build trial balance")
		return
	}

	c.JSON(http.StatusOK, rows)
}

// profitAndLoss godoc
// @Summary Profit and loss
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.PAndLReport
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/reports/profit-and-loss [get]
func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to dates are required"})
		return
	}

	report, err := h.reportingService.GetProfitAndLoss(c.Request.Context(), tc, params.From, params.To)
	if err != nil {
		respondServiceError(c, err, "Failed to build profit and loss")
		return
	}

	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param asOf query string false "As-of date (YYYY-MM-DD)"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	asOf := time.Now()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	report, err := h.reportingService.GetBalanceSheet(c.Request.Context(), tc, asOf)
	if err != nil {
		respondServiceError(c, err, "Failed to build balance sheet")
		return
	}

	c.JSON(http.StatusOK, report)
}

// vatReturn godoc
// @Summary VAT return
// @Description Summary boxes for a VAT period: output VAT, input VAT, net due, net sales, net purchases.
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.VATReturn
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/reports/vat-return [get]
func (h *reportingHandler) vatReturn(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to dates are required"})
		return
	}

	report, err := h.reportingService.GetVATReturn(c.Request.Context(), tc, params.From, params.To)
	if err != nil {
		respondServiceError(c, err, "Failed to build VAT return")
		return
	}

	c.JSON(http.StatusOK, report)
}
