package performance

const (
	StatusDraft             = "Draft"
	StatusSubmitted         = "Submitted"
	StatusApproved          = "Approved"
	StatusEmployeeCommented = "Employee Commented"

	MinRating = 1
	MaxRating = 5

	// UpcomingWindowDays bounds how far ahead a next review date counts as upcoming.
	UpcomingWindowDays = 30
	// StatsWindowMonths bounds the overall average rating.
	StatsWindowMonths = 12
)

var Statuses = []string{StatusDraft, StatusSubmitted, StatusApproved, StatusEmployeeCommented}

func validStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
