package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorialhub-backend/internal/http/response"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

type BillingHandler struct {
	billing services.BillingService
}

func NewBillingHandler(billing services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// GET /api/plans
func (h *BillingHandler) ListPlans(c *gin.Context) {
	response.RespondOK(c, gin.H{"plans": h.billing.Plans()})
}

// GET /api/subscription
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	sub, err := h.billing.Subscription(reqDBC(c))
	if err != nil {
		response.RespondServiceError(c, "load_subscription_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"subscription": sub})
}

// POST /api/billing/orders
func (h *BillingHandler) CreateOrder(c *gin.Context) {
	var req struct {
		PlanID string `json:"plan_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plan", err)
		return
	}
	order, err := h.billing.CreateOrder(reqDBC(c), req.PlanID)
	if err != nil {
		response.RespondServiceError(c, "create_order_failed", err)
		return
	}
	response.RespondCreated(c, order)
}

// POST /api/billing/verify
func (h *BillingHandler) VerifyPayment(c *gin.Context) {
	var in services.VerifyPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_payment", err)
		return
	}
	sub, err := h.billing.VerifyPayment(reqDBC(c), in)
	if err != nil {
		response.RespondServiceError(c, "verify_payment_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"subscription": sub})
}
