package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/middleware"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers account routes under a tenant-scoped group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", middleware.RequireOperation(domain.OpReadAccounts), h.listAccounts)
		accounts.GET("/:accountID", middleware.RequireOperation(domain.OpReadAccounts), h.getAccount)
		accounts.POST("", middleware.RequireOperation(domain.OpManageAccounts), h.createAccount)
		accounts.PUT("/:accountID", middleware.RequireOperation(domain.OpManageAccounts), h.updateAccount)
		accounts.DELETE("/:accountID", middleware.RequireOperation(domain.OpManageAccounts), h.deleteAccount)
	}
}

// listAccounts godoc
// @Summary List the tenant's chart of accounts
// @Tags accounts
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), tc)
	if err != nil {
		respondServiceError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts, tc.Locale.CurrencyCode))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tc, c.Param("accountID"))
	if err != nil {
		respondServiceError(c, err, "Failed to get account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account, tc.Locale.CurrencyCode))
}

// createAccount godoc
// @Summary Create a custom account
// @Tags accounts
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Account code already exists"
// @Security BearerAuth
// @Router /tenants/{tenantID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), tc, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account, tc.Locale.CurrencyCode))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates name, description, or active flag. System accounts may be renamed but never deactivated.
// @Tags accounts
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Mutable account fields"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "System account protection"
// @Security BearerAuth
// @Router /tenants/{tenantID}/accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), tc, c.Param("accountID"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account, tc.Locale.CurrencyCode))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes a custom account with no ledger history. System accounts cannot be deleted.
// @Tags accounts
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "System account or ledger history"
// @Security BearerAuth
// @Router /tenants/{tenantID}/accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), tc, c.Param("accountID")); err != nil {
		respondServiceError(c, err, "Failed to delete account")
		return
	}

	c.Status(http.StatusNoContent)
}
