package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

type UserSubscription struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              string     `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	CurrentPlanID       string     `gorm:"column:current_plan_id;not null;default:'free'" json:"current_plan_id"`
	CourseCreationLimit int        `gorm:"column:course_creation_limit;not null;default:5" json:"course_creation_limit"`
	RazorpayOrderID     string     `gorm:"column:razorpay_order_id" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID   string     `gorm:"column:razorpay_payment_id" json:"razorpay_payment_id,omitempty"`
	StartDate           *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate             *time.Time `gorm:"column:end_date;index" json:"end_date,omitempty"`
	Status              string     `gorm:"column:status;not null;default:'active';index" json:"status"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserSubscription) TableName() string { return "user_subscription" }

func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
