package employee

import "github.com/shopspring/decimal"

// Salaries are stored as NUMERIC(14,2): at most two decimal places and
// strictly below SalaryCeiling.
var SalaryCeiling = decimal.New(1, 12)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

var Statuses = []string{StatusActive, StatusInactive}
