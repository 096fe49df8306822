package attendance

import "time"

type Attendance struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	Date          time.Time  `json:"date"`
	CheckIn       *time.Time `json:"checkIn,omitempty"`
	CheckOut      *time.Time `json:"checkOut,omitempty"`
	Status        string     `json:"status"`
	WorkHours     *float64   `json:"workHours,omitempty"`
	OvertimeHours float64    `json:"overtimeHours"`
	Location      string     `json:"location"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Recalculate refreshes the derived hour fields from the timestamps.
func (a *Attendance) Recalculate() {
	work, overtime, ok := WorkHours(a.CheckIn, a.CheckOut)
	if !ok {
		a.WorkHours = nil
		a.OvertimeHours = 0
		return
	}
	a.WorkHours = &work
	a.OvertimeHours = overtime
}

type EmployeeStats struct {
	EmployeeID       string    `json:"employeeId"`
	Since            time.Time `json:"since"`
	TotalDays        int64     `json:"totalDays"`
	AverageWorkHours float64   `json:"averageWorkHours"`
	TotalWorkHours   float64   `json:"totalWorkHours"`
}

type Stats struct {
	Since            time.Time        `json:"since"`
	TotalRecords     int64            `json:"totalRecords"`
	AverageWorkHours float64          `json:"averageWorkHours"`
	TotalWorkHours   float64          `json:"totalWorkHours"`
	StatusCounts     map[string]int64 `json:"statusCounts"`
}
