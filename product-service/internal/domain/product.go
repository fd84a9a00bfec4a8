package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	Currency        string
	RequiredOptions []string
	Active          bool
	CreatedAt       time.Time
}
