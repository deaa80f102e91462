package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/clients/razorpay"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainbilling "github.com/yungbote/tutorialhub-backend/internal/domain/billing"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

const subscriptionPeriod = 30 * 24 * time.Hour

var (
	ErrUnknownPlan        = apierr.BadRequest("invalid_plan", errors.New("unknown plan"))
	ErrFreePlanOrder      = apierr.BadRequest("invalid_plan", errors.New("the free plan cannot be purchased"))
	ErrPaymentsDisabled   = apierr.Unavailable("payments_unavailable", errors.New("payment gateway is not configured"))
	ErrInvalidSignature   = apierr.BadRequest("invalid_signature", errors.New("Invalid signature"))
	ErrMissingPaymentInfo = apierr.BadRequest("invalid_payment", errors.New("Missing required payment verification details"))
	ErrOrderNotFound      = apierr.NotFound("order_not_found", errors.New("order not found"))
	ErrPlanMismatch       = apierr.BadRequest("plan_mismatch", errors.New("plan does not match the order"))
	ErrPaymentAlreadyUsed = apierr.Conflict("payment_already_used", errors.New("payment has already been applied"))
	ErrCourseLimitReached = apierr.Forbidden("course_limit_reached", errors.New("course creation limit reached for your plan"))
)

type OrderView struct {
	Order *razorpay.Order `json:"order"`
	KeyID string          `json:"key_id"`
	Plan  types.Plan      `json:"plan"`
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	// PlanID is optional; the plan always comes from the recorded order.
	PlanID string `json:"plan_id"`
}

type BillingService interface {
	Plans() []types.Plan
	// Subscription returns the caller's effective subscription; users who never
	// paid get an unsaved free-plan row.
	Subscription(dbc dbctx.Context) (*types.UserSubscription, error)
	CreateOrder(dbc dbctx.Context, planID string) (*OrderView, error)
	VerifyPayment(dbc dbctx.Context, in VerifyPaymentInput) (*types.UserSubscription, error)
	CheckCourseLimit(ctx context.Context, userID string) error
	ExpireSubscriptions(ctx context.Context) (int64, error)
}

type billingService struct {
	db       *gorm.DB
	log      *logger.Logger
	subs     repos.SubscriptionRepo
	orders   repos.PaymentOrderRepo
	courses  repos.CourseRepo
	gateway  razorpay.Client
	metrics  *observability.Metrics
	now      func() time.Time
	receipts func() string
}

// NewBillingService wires plans and payments. A nil gateway disables ordering and verification.
func NewBillingService(db *gorm.DB, baseLog *logger.Logger, subs repos.SubscriptionRepo, orders repos.PaymentOrderRepo, courses repos.CourseRepo, gateway razorpay.Client, metrics *observability.Metrics) BillingService {
	return &billingService{
		db:      db,
		log:     baseLog.With("service", "BillingService"),
		subs:    subs,
		orders:  orders,
		courses: courses,
		gateway: gateway,
		metrics: metrics,
		now:     time.Now,
		receipts: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		},
	}
}

func (s *billingService) Plans() []types.Plan { return domainbilling.Plans() }

func (s *billingService) effective(dbc dbctx.Context, userID string) (*types.UserSubscription, error) {
	sub, err := s.subs.GetByUserID(dbc, userID)
	if err != nil {
		return nil, err
	}
	free := domainbilling.FreePlan()
	if sub == nil {
		return &types.UserSubscription{
			UserID:              userID,
			CurrentPlanID:       free.ID,
			CourseCreationLimit: free.CourseLimit,
			Status:              domainbilling.StatusActive,
		}, nil
	}
	// The daily sweep may not have run yet.
	if sub.Status == domainbilling.StatusActive && sub.EndDate != nil && sub.EndDate.Before(s.now()) {
		sub.Status = domainbilling.StatusExpired
		sub.CurrentPlanID = free.ID
		sub.CourseCreationLimit = free.CourseLimit
	}
	return sub, nil
}

func (s *billingService) Subscription(dbc dbctx.Context) (*types.UserSubscription, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	return s.effective(dbc, userID)
}

func (s *billingService) CreateOrder(dbc dbctx.Context, planID string) (*OrderView, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	plan, ok := domainbilling.PlanByID(strings.TrimSpace(planID))
	if !ok {
		return nil, ErrUnknownPlan
	}
	if plan.IsFree() {
		return nil, ErrFreePlanOrder
	}
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	order, err := s.gateway.CreateOrder(dbc.Ctx, razorpay.OrderRequest{
		Amount:   plan.AmountInPaisa(),
		Currency: "INR",
		Receipt:  fmt.Sprintf("receipt_tut_%s_%s_%s", plan.ID, userID, s.receipts()),
		Notes:    map[string]string{"planId": plan.ID, "userId": userID},
	})
	if err != nil {
		s.log.Error("Failed to create order", "plan_id", plan.ID, "user_id", userID, "error", err)
		s.metrics.IncBillingEvent("order", "failed")
		return nil, apierr.New(http.StatusBadGateway, "order_failed", fmt.Errorf("Failed to create order: %w", err))
	}
	if err := s.orders.Create(dbc, &types.PaymentOrder{
		RazorpayOrderID: order.ID,
		UserID:          userID,
		PlanID:          plan.ID,
		AmountInPaisa:   plan.AmountInPaisa(),
	}); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	s.metrics.IncBillingEvent("order", "created")
	return &OrderView{Order: order, KeyID: s.gateway.KeyID(), Plan: plan}, nil
}

func (s *billingService) VerifyPayment(dbc dbctx.Context, in VerifyPaymentInput) (*types.UserSubscription, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == "" {
		return nil, errUnauthenticated
	}
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, ErrMissingPaymentInfo
	}
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	if err := s.gateway.VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature); err != nil {
		if errors.Is(err, razorpay.ErrInvalidSignature) {
			s.log.Warn("payment signature mismatch", "order_id", in.OrderID, "user_id", userID)
			s.metrics.IncBillingEvent("verify", "invalid_signature")
			return nil, ErrInvalidSignature
		}
		return nil, err
	}

	transaction := dbc.Tx
	if transaction == nil {
		transaction = s.db
	}
	var sub *types.UserSubscription
	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}
		order, err := s.orders.GetByOrderID(inner, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil || order.UserID != userID {
			return ErrOrderNotFound
		}
		if in.PlanID != "" && in.PlanID != order.PlanID {
			return ErrPlanMismatch
		}
		plan, ok := domainbilling.PlanByID(order.PlanID)
		if !ok || plan.IsFree() {
			return ErrUnknownPlan
		}

		start := s.now()
		claimed, err := s.orders.MarkPaid(inner, in.OrderID, in.PaymentID, start)
		if errors.Is(err, repoerr.ErrConflict) || (err == nil && !claimed) {
			return ErrPaymentAlreadyUsed
		}
		if err != nil {
			return err
		}

		end := start.Add(subscriptionPeriod)
		sub, err = s.subs.Upsert(inner, &types.UserSubscription{
			UserID:              userID,
			CurrentPlanID:       plan.ID,
			CourseCreationLimit: plan.CourseLimit,
			RazorpayOrderID:     in.OrderID,
			RazorpayPaymentID:   in.PaymentID,
			StartDate:           &start,
			EndDate:             &end,
			Status:              domainbilling.StatusActive,
		})
		if err != nil {
			return fmt.Errorf("save subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		if ae, ok := apierr.As(err); ok {
			s.log.Warn("payment rejected", "order_id", in.OrderID, "user_id", userID, "reason", ae.Code)
			s.metrics.IncBillingEvent("verify", ae.Code)
		}
		return nil, err
	}
	s.metrics.IncBillingEvent("verify", "succeeded")
	s.log.Info("subscription activated", "user_id", userID, "plan_id", sub.CurrentPlanID, "order_id", in.OrderID)
	return sub, nil
}

func (s *billingService) CheckCourseLimit(ctx context.Context, userID string) error {
	dbc := dbctx.New(ctx)
	sub, err := s.effective(dbc, userID)
	if err != nil {
		return err
	}
	count, err := s.courses.CountByCreator(dbc, userID)
	if err != nil {
		return err
	}
	if count >= int64(sub.CourseCreationLimit) {
		return ErrCourseLimitReached
	}
	return nil
}

func (s *billingService) ExpireSubscriptions(ctx context.Context) (int64, error) {
	n, err := s.subs.ExpireEndedBefore(dbctx.New(ctx), s.now(), domainbilling.FreePlan())
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", err)
	}
	if n > 0 {
		s.log.Info("subscriptions expired", "count", n)
	}
	return n, nil
}
