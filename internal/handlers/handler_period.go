package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portssvc "github.com/salesmatrix/accounting_backend/internal/core/ports/services"
	"github.com/salesmatrix/accounting_backend/internal/dto"
	"github.com/salesmatrix/accounting_backend/internal/middleware"
)

// periodHandler handles fiscal period lock management.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers period lock routes under a tenant-scoped group.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.GET("/locks", middleware.RequireOperation(domain.OpReadPeriodLocks), h.listLocks)
		periods.POST("/locks", middleware.RequireOperation(domain.OpLockPeriod), h.lockPeriod)
		periods.DELETE("/locks/:period", middleware.RequireOperation(domain.OpUnlockPeriod), h.unlockPeriod)
	}
}

// listLocks godoc
// @Summary List period locks
// @Tags periods
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} dto.PeriodLockResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/periods/locks [get]
func (h *periodHandler) listLocks(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	locks, err := h.periodService.ListLocks(c.Request.Context(), tc)
	if err != nil {
		respondServiceError(c, err, "Failed to list period locks")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodLockResponses(locks))
}

// lockPeriod godoc
// @Summary Lock a fiscal period
// @Description Closes a period to new postings. Locking an already-locked period succeeds and returns the original lock.
// @Tags periods
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param lock body dto.LockPeriodRequest true "Period to lock (YYYY-MM)"
// @Success 201 {object} dto.PeriodLockResponse
// @Failure 400 {object} ErrorResponse "Malformed period"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/periods/locks [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	var req dto.LockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	lock, err := h.periodService.LockPeriod(c.Request.Context(), tc, domain.Period(req.Period))
	if err != nil {
		respondServiceError(c, err, "Failed to lock period")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPeriodLockResponse(*lock))
}

// unlockPeriod godoc
// @Summary Unlock a fiscal period
// @Description Reopens a period to postings. Admin only. Unlocking an unlocked period is a no-op.
// @Tags periods
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param period path string true "Period to unlock (YYYY-MM)"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Malformed period"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID}/periods/locks/{period} [delete]
func (h *periodHandler) unlockPeriod(c *gin.Context) {
	tc, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Tenant context not resolved"})
		return
	}

	if err := h.periodService.UnlockPeriod(c.Request.Context(), tc, domain.Period(c.Param("period"))); err != nil {
		respondServiceError(c, err, "Failed to unlock period")
		return
	}

	c.Status(http.StatusNoContent)
}
