package employee

import (
	"time"

	"github.com/shopspring/decimal"

	"empsync/internal/domain/payroll"
)

type Employee struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Department string          `json:"department"`
	Position   string          `json:"position"`
	Salary     decimal.Decimal `json:"salary"`
	Gender     string          `json:"gender"`
	JoinDate   *time.Time      `json:"joinDate,omitempty"`
	Address    string          `json:"address"`
	Status     string          `json:"status"`
	Bonus      decimal.Decimal `json:"bonus"`
	PF         decimal.Decimal `json:"pf"`
	Tax        decimal.Decimal `json:"tax"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// withDeductions overwrites the derived fields from the current salary.
func (e Employee) withDeductions() Employee {
	d := payroll.Calculate(e.Salary)
	e.Bonus = d.Bonus
	e.PF = d.PF
	e.Tax = d.Tax
	return e
}

type Filter struct {
	Department string
	Gender     string
	Status     string
	Position   string
	Name       string
	MinSalary  *decimal.Decimal
	MaxSalary  *decimal.Decimal
	Limit      int
	Offset     int
}

type DepartmentSummary struct {
	Name          string          `json:"name"`
	Count         int64           `json:"count"`
	AverageSalary decimal.Decimal `json:"averageSalary"`
}

// Patch carries the subset of fields a partial update touches. Nil means
// leave unchanged.
type Patch struct {
	Name       *string
	Email      *string
	Phone      *string
	Department *string
	Position   *string
	Salary     *decimal.Decimal
	Gender     *string
	JoinDate   *time.Time
	Address    *string
	Status     *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Department == nil &&
		p.Position == nil && p.Salary == nil && p.Gender == nil && p.JoinDate == nil &&
		p.Address == nil && p.Status == nil
}

func (p Patch) apply(e *Employee) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	if p.Gender != nil {
		e.Gender = *p.Gender
	}
	if p.JoinDate != nil {
		joinDate := *p.JoinDate
		e.JoinDate = &joinDate
	}
	if p.Address != nil {
		e.Address = *p.Address
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
}
