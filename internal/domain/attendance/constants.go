package attendance

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"

	StandardWorkHours = 8.0

	DefaultStatsDays = 30
)
