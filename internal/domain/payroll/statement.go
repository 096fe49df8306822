package payroll

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Statement is the input for a one-page deduction statement.
type Statement struct {
	EmployeeName string
	Email        string
	Department   string
	Position     string
	Salary       decimal.Decimal
	GeneratedAt  time.Time
}

// WriteStatementPDF renders the statement to w. Deductions are recomputed
// from the salary rather than taken from storage.
func WriteStatementPDF(w io.Writer, st Statement) error {
	d := Calculate(st.Salary)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Deduction statement", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Deduction statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", st.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", st.Email))
	pdf.Ln(7)
	if st.Department != "" || st.Position != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Role: %s / %s", st.Department, st.Position))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", st.GeneratedAt.Format("2006-01-02")))
	pdf.Ln(10)

	rows := [][2]string{
		{"Salary", st.Salary.StringFixed(moneyPlaces)},
		{"Bonus (10%)", d.Bonus.StringFixed(moneyPlaces)},
		{"Provident fund (12%)", d.PF.StringFixed(moneyPlaces)},
		{"Tax", d.Tax.StringFixed(moneyPlaces)},
		{"Net", d.Net(st.Salary).StringFixed(moneyPlaces)},
	}
	for i, row := range rows {
		if i == len(rows)-1 {
			pdf.SetFont("Helvetica", "B", 12)
		}
		pdf.CellFormat(80, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row[1], "1", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}
