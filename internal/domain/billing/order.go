package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderCreated = "created"
	OrderPaid    = "paid"
)

// PaymentOrder binds a gateway order to the buyer and plan chosen at checkout.
// PaymentID stays NULL until the order is redeemed, so the unique index only
// constrains redeemed payments.
type PaymentOrder struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RazorpayOrderID string     `gorm:"column:razorpay_order_id;not null;uniqueIndex" json:"razorpay_order_id"`
	UserID          string     `gorm:"column:user_id;not null;index" json:"user_id"`
	PlanID          string     `gorm:"column:plan_id;not null" json:"plan_id"`
	AmountInPaisa   int64      `gorm:"column:amount_in_paisa;not null" json:"amount_in_paisa"`
	Status          string     `gorm:"column:status;not null;default:'created'" json:"status"`
	PaymentID       *string    `gorm:"column:razorpay_payment_id;uniqueIndex" json:"razorpay_payment_id,omitempty"`
	PaidAt          *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (PaymentOrder) TableName() string { return "payment_order" }

func (o *PaymentOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
