package performance

import "time"

type Review struct {
	ID                  string     `json:"id"`
	EmployeeID          string     `json:"employeeId"`
	ReviewPeriod        string     `json:"reviewPeriod"`
	ReviewerID          string     `json:"reviewerId,omitempty"`
	OverallRating       *int       `json:"overallRating"`
	QualityRating       *int       `json:"qualityRating"`
	ProductivityRating  *int       `json:"productivityRating"`
	TeamworkRating      *int       `json:"teamworkRating"`
	CommunicationRating *int       `json:"communicationRating"`
	InitiativeRating    *int       `json:"initiativeRating"`
	Strengths           string     `json:"strengths"`
	AreasForImprovement string     `json:"areasForImprovement"`
	Goals               string     `json:"goals"`
	EmployeeComments    string     `json:"employeeComments"`
	ReviewerComments    string     `json:"reviewerComments"`
	Status              string     `json:"status"`
	ReviewDate          *time.Time `json:"reviewDate"`
	NextReviewDate      *time.Time `json:"nextReviewDate"`
	AverageRating       float64    `json:"averageRating"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (r Review) subRatings() []*int {
	return []*int{r.QualityRating, r.ProductivityRating, r.TeamworkRating, r.CommunicationRating, r.InitiativeRating}
}

func (r Review) ratings() []*int {
	return append([]*int{r.OverallRating}, r.subRatings()...)
}

func (r Review) withAverage() Review {
	r.AverageRating = AverageRating(r)
	return r
}

type Stats struct {
	AverageRating      float64          `json:"averageRating"`
	StatusCounts       map[string]int64 `json:"statusCounts"`
	RatingDistribution map[int]int64    `json:"ratingDistribution"`
}

type EmployeeStats struct {
	EmployeeID     string  `json:"employeeId"`
	AverageRating  float64 `json:"averageRating"`
	PendingReviews int64   `json:"pendingReviews"`
	LatestReview   *Review `json:"latestReview"`
	NextReview     *Review `json:"nextReview"`
}
