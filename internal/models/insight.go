package models

// ProblemArea is a spending category the report flags
type ProblemArea struct {
	Category string `json:"category"`
	Issue    string `json:"issue"`
	Impact   string `json:"impact"`
}

// AIReport is the model-produced monthly report. Display data only.
type AIReport struct {
	MonthlySummary      string        `json:"monthlySummary"`
	KeyObservations     []string      `json:"keyObservations"`
	ProblemAreas        []ProblemArea `json:"problemAreas"`
	AIRecommendations   []string      `json:"aiRecommendations"`
	NextMonthActionPlan []string      `json:"nextMonthActionPlan"`
}

// AIInsight is one model-produced spending anomaly
type AIInsight struct {
	Title           string `json:"title"`
	Explanation     string `json:"explanation"`
	RiskLevel       string `json:"riskLevel"`
	SuggestedAction string `json:"suggestedAction"`
}
