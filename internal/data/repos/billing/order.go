package billing

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainbilling "github.com/yungbote/tutorialhub-backend/internal/domain/billing"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type PaymentOrderRepo interface {
	Create(dbc dbctx.Context, order *types.PaymentOrder) error
	// GetByOrderID returns (nil, nil) for an order this service never issued.
	GetByOrderID(dbc dbctx.Context, razorpayOrderID string) (*types.PaymentOrder, error)
	// MarkPaid flips a created order to paid. It reports false when the order
	// was already redeemed and returns repoerr.ErrConflict when the payment id
	// was already used for another order.
	MarkPaid(dbc dbctx.Context, razorpayOrderID, paymentID string, at time.Time) (bool, error)
}

type paymentOrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentOrderRepo(db *gorm.DB, baseLog *logger.Logger) PaymentOrderRepo {
	return &paymentOrderRepo{db: db, log: baseLog.With("repo", "PaymentOrderRepo")}
}

func (r *paymentOrderRepo) Create(dbc dbctx.Context, order *types.PaymentOrder) error {
	if order == nil {
		return errors.New("nil payment order")
	}
	if order.Status == "" {
		order.Status = domainbilling.OrderCreated
	}
	return repoerr.Translate(dbc.Resolve(r.db).Create(order).Error)
}

func (r *paymentOrderRepo) GetByOrderID(dbc dbctx.Context, razorpayOrderID string) (*types.PaymentOrder, error) {
	if razorpayOrderID == "" {
		return nil, nil
	}
	var order types.PaymentOrder
	err := dbc.Resolve(r.db).Where("razorpay_order_id = ?", razorpayOrderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *paymentOrderRepo) MarkPaid(dbc dbctx.Context, razorpayOrderID, paymentID string, at time.Time) (bool, error) {
	res := dbc.Resolve(r.db).Model(&types.PaymentOrder{}).
		Where("razorpay_order_id = ? AND status = ?", razorpayOrderID, domainbilling.OrderCreated).
		Updates(map[string]interface{}{
			"status":              domainbilling.OrderPaid,
			"razorpay_payment_id": paymentID,
			"paid_at":             at,
			"updated_at":          time.Now(),
		})
	if res.Error != nil {
		return false, repoerr.Translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}
