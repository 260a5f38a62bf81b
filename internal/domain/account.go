package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balances maps a currency code to the available amount.
type Balances map[string]decimal.Decimal

type OpenOrder struct {
	Pair        Pair
	OrderNumber string
	Type        string
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	Total       decimal.Decimal
	Date        time.Time
}
