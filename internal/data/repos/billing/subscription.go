package billing

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
	domainbilling "github.com/yungbote/tutorialhub-backend/internal/domain/billing"
	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type SubscriptionRepo interface {
	// GetByUserID returns (nil, nil) when the user never subscribed.
	GetByUserID(dbc dbctx.Context, userID string) (*types.UserSubscription, error)
	Upsert(dbc dbctx.Context, sub *types.UserSubscription) (*types.UserSubscription, error)
	ExpireEndedBefore(dbc dbctx.Context, cutoff time.Time, fallback types.Plan) (int64, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) GetByUserID(dbc dbctx.Context, userID string) (*types.UserSubscription, error) {
	if userID == "" {
		return nil, nil
	}
	var sub types.UserSubscription
	err := dbc.Resolve(r.db).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) Upsert(dbc dbctx.Context, sub *types.UserSubscription) (*types.UserSubscription, error) {
	if sub == nil {
		return nil, errors.New("nil subscription")
	}
	sub.UpdatedAt = time.Now()
	err := dbc.Resolve(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_plan_id",
			"course_creation_limit",
			"razorpay_order_id",
			"razorpay_payment_id",
			"start_date",
			"end_date",
			"status",
			"updated_at",
		}),
	}).Create(sub).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, sub.UserID)
}

// ExpireEndedBefore downgrades active paid subscriptions whose end date passed.
func (r *subscriptionRepo) ExpireEndedBefore(dbc dbctx.Context, cutoff time.Time, fallback types.Plan) (int64, error) {
	res := dbc.Resolve(r.db).Model(&types.UserSubscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", domainbilling.StatusActive, cutoff).
		Updates(map[string]interface{}{
			"status":                domainbilling.StatusExpired,
			"current_plan_id":       fallback.ID,
			"course_creation_limit": fallback.CourseLimit,
			"updated_at":            time.Now(),
		})
	return res.RowsAffected, res.Error
}
