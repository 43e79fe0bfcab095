// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"fmt"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Enumerations are stored as smallints; anchor dates as SQL dates.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number           string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_orders_number"`
	CustomerRef      string     `gorm:"type:varchar(255);not null"`
	TradeTerm        int        `gorm:"type:smallint;not null"`
	Category         int        `gorm:"type:smallint;not null"`
	Packaging        int        `gorm:"type:smallint;not null"`
	RequiresPPSample bool       `gorm:"not null"`
	CreatedAt        time.Time  `gorm:"not null;index"`
	ShipDate         *time.Time `gorm:"type:date"`
	WarehouseDate    *time.Time `gorm:"type:date"`
	Status           int        `gorm:"type:smallint;not null;index"`
	Version          int        `gorm:"not null;default:0"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:               o.ID().Bytes(),
		Number:           o.Number(),
		CustomerRef:      o.CustomerRef(),
		TradeTerm:        int(o.TradeTerm()),
		Category:         int(o.Category()),
		Packaging:        int(o.Packaging()),
		RequiresPPSample: o.RequiresPPSample(),
		CreatedAt:        o.CreatedAt().UTC(),
		ShipDate:         o.ShipDate(),
		WarehouseDate:    o.WarehouseDate(),
		Status:           int(o.Status()),
		Version:          o.Version(),
	}
}

// mutable lists the columns an update may change. Zero values are written
// too, which Updates with a struct would skip.
func (dto OrderDTO) mutable() map[string]any {
	return map[string]any{
		"customer_ref":       dto.CustomerRef,
		"ship_date":          dto.ShipDate,
		"warehouse_date":     dto.WarehouseDate,
		"requires_pp_sample": dto.RequiresPPSample,
		"status":             dto.Status,
		"version":            dto.Version + 1,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	attrs := order.Attributes{
		TradeTerm:        order.TradeTerm(dto.TradeTerm),
		Category:         order.Category(dto.Category),
		Packaging:        order.Packaging(dto.Packaging),
		RequiresPPSample: dto.RequiresPPSample,
		CreatedAt:        dto.CreatedAt.UTC(),
		ShipDate:         dateOrNil(dto.ShipDate),
		WarehouseDate:    dateOrNil(dto.WarehouseDate),
	}

	return order.RestoreOrder(id, dto.Number, dto.CustomerRef, attrs, order.Status(dto.Status), dto.Version)
}

func dateOrNil(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	day := kernel.DateOf(*d)
	return &day
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, len(dtos))
	for i, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("order %d of %d: %w", i+1, len(dtos), err)
		}
		orders[i] = o
	}
	return orders, nil
}
