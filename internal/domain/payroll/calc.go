package payroll

import "github.com/shopspring/decimal"

type Deductions struct {
	Bonus decimal.Decimal `json:"bonus"`
	PF    decimal.Decimal `json:"pf"`
	Tax   decimal.Decimal `json:"tax"`
}

type taxBracket struct {
	upTo  decimal.Decimal
	floor decimal.Decimal
	base  decimal.Decimal
	rate  decimal.Decimal
}

// Calculate derives bonus, provident fund and tax from a salary. Non-positive
// salaries yield zero deductions.
func Calculate(salary decimal.Decimal) Deductions {
	if !salary.IsPositive() {
		return Deductions{Bonus: decimal.Zero, PF: decimal.Zero, Tax: decimal.Zero}
	}
	return Deductions{
		Bonus: salary.Mul(BonusRate).Round(moneyPlaces),
		PF:    salary.Mul(PFRate).Round(moneyPlaces),
		Tax:   Tax(salary),
	}
}

func Tax(salary decimal.Decimal) decimal.Decimal {
	if !salary.IsPositive() {
		return decimal.Zero
	}
	for _, bracket := range taxBrackets {
		if bracket.upTo.IsZero() || salary.LessThanOrEqual(bracket.upTo) {
			return bracket.base.Add(salary.Sub(bracket.floor).Mul(bracket.rate)).Round(moneyPlaces)
		}
	}
	return decimal.Zero
}

// Net is the take-home amount after provident fund and tax.
func (d Deductions) Net(salary decimal.Decimal) decimal.Decimal {
	return salary.Sub(d.PF).Sub(d.Tax).Round(moneyPlaces)
}
