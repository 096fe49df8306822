package payroll

import "github.com/shopspring/decimal"

var (
	BonusRate = decimal.RequireFromString("0.10")
	PFRate    = decimal.RequireFromString("0.12")
)

// Tax brackets apply to the whole salary. Each bracket's base is the tax
// owed at its lower bound so the schedule stays continuous.
var taxBrackets = []taxBracket{
	{upTo: decimal.NewFromInt(250000), floor: decimal.Zero, base: decimal.Zero, rate: decimal.Zero},
	{upTo: decimal.NewFromInt(500000), floor: decimal.NewFromInt(250000), base: decimal.Zero, rate: decimal.RequireFromString("0.05")},
	{upTo: decimal.NewFromInt(1000000), floor: decimal.NewFromInt(500000), base: decimal.NewFromInt(12500), rate: decimal.RequireFromString("0.20")},
	{floor: decimal.NewFromInt(1000000), base: decimal.NewFromInt(112500), rate: decimal.RequireFromString("0.30")},
}

const moneyPlaces = 2
