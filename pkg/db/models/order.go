package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

// Order represents a customer order moving through the fulfillment pipeline.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID         `gorm:"column:store_id;type:uuid;not null"`
	OrderNumber int64             `gorm:"column:order_number;not null"`
	ClientID    uuid.UUID         `gorm:"column:client_id;type:uuid;not null"`
	ClientName  string            `gorm:"column:client_name;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	TotalCents  int               `gorm:"column:total_cents;not null;default:0"`
	Notes       *string           `gorm:"column:notes"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	RoutedAt    *time.Time        `gorm:"column:routed_at"`
	ReleasedAt  *time.Time        `gorm:"column:released_at"`
	DeliveredAt *time.Time        `gorm:"column:delivered_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
