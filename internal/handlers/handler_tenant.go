package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/middleware"
)

// tenantHandler handles HTTP requests related to tenants and memberships.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

func newTenantHandler(ts portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: ts}
}

// registerTenantRoutes registers tenant management routes and nests all
// tenant-scoped resources (accounts, documents, ledger, periods, reports)
// under /tenants/:tenantID behind the tenant resolution middleware.
func registerTenantRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTenantHandler(services.Tenant)

	tenants := rg.Group("/tenants")
	{
		tenants.POST("", h.createTenant)
		tenants.GET("", h.listTenants)
	}

	scoped := rg.Group("/tenants/:tenantID", middleware.TenantMiddleware(services.Tenant))
	{
		scoped.GET("", h.getTenant)
		scoped.PUT("/locale", middleware.RequireOperation(domain.OpUpdateLocale), h.updateLocale)
		scoped.POST("/members", middleware.RequireOperation(domain.OpManageMembers), h.addMember)
		scoped.GET("/members", h.listMembers)

		registerAccountRoutes(scoped, services.Account)
		registerPostingRoutes(scoped, services.Posting)
		registerLedgerRoutes(scoped, services.Ledger)
		registerPeriodRoutes(scoped, services.Period)
		registerReportingRoutes(scoped, services.Reporting)
	}
}

// createTenant godoc
// @Summary Create a new tenant
// @Description Creates a tenant, seeds its system chart of accounts, and makes the caller an admin.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create tenant")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// listTenants godoc
// @Summary List the caller's tenants
// @Description Returns every tenant the authenticated user is a member of.
// @Tags tenants
// @Produce json
// @Success 200 {array} dto.TenantResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants [get]
func (h *tenantHandler) listTenants(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenants, err := h.tenantService.ListTenantsForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to list tenants")
		return
	}

	out := make([]dto.TenantResponse, len(tenants))
	for i := range tenants {
		out[i] = dto.ToTenantResponse(&tenants[i])
	}
	c.JSON(http.StatusOK, out)
}

// getTenant godoc
// @Summary Get tenant details
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), tc)
	if err != nil {
		respondServiceError(c, err, "Failed to get tenant")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// updateLocale godoc
// @Summary Update tenant locale
// @Description Replaces the tenant's currency and tax configuration. Admin only.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param locale body dto.UpdateLocaleRequest true "Locale configuration"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/locale [put]
func (h *tenantHandler) updateLocale(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var req dto.UpdateLocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	tenant, err := h.tenantService.UpdateLocale(c.Request.Context(), tc, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update locale")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// addMember godoc
// @Summary Add a member to the tenant
// @Description Grants a user a role in the tenant. Admin only.
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param member body dto.AddMemberRequest true "Membership details"
// @Success 201 {object} dto.MembershipResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User is already a member"
// @Security BearerAuth
// @Router /tenants/{tenantID}/members [post]
func (h *tenantHandler) addMember(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	membership, err := h.tenantService.AddMember(c.Request.Context(), tc, req)
	if err != nil {
		respondServiceError(c, err, "Failed to add member")
		return
	}

	c.JSON(http.StatusCreated, dto.ToMembershipResponse(*membership))
}

// listMembers godoc
// @Summary List tenant members
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} dto.MembershipResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/members [get]
func (h *tenantHandler) listMembers(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	members, err := h.tenantService.ListMembers(c.Request.Context(), tc)
	if err != nil {
		respondServiceError(c, err, "Failed to list members")
		return
	}

	out := make([]dto.MembershipResponse, len(members))
	for i, m := range members {
		out[i] = dto.ToMembershipResponse(m)
	}
	c.JSON(http.StatusOK, out)
}
