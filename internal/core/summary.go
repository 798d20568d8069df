package core

import "github.com/shopspring/decimal"

// Stats are the dashboard headline totals.
type Stats struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
	Stock    int64           `json:"stock"`
}

// RevenueSeries holds one entry per calendar month, oldest first.
type RevenueSeries struct {
	Labels   []string `json:"labels"`
	Months   []string `json:"months"`
	Revenue  []int64  `json:"revenue"`
	Expenses []int64  `json:"expenses"`
}

// MonthlyAmount is a debit total for one month and transaction type.
type MonthlyAmount struct {
	Month string
	Type  string
	Total decimal.Decimal
}

// CategoryTotal is a category's sales total for a month.
type CategoryTotal struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// TransactionFilter narrows the transaction list.
type TransactionFilter struct {
	Query  string
	Type   string
	Limit  int
	Offset int
}
