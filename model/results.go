package model

// QuestionResult aggregates every stored answer to one question. Choice
// questions (radio, checkbox, boolean) report per-option counts for the chart
// view; text and number questions report the raw value list.
type QuestionResult struct {
	Question Question       `json:"question"`
	Counts   map[string]int `json:"counts,omitempty"`
	Values   []any          `json:"values,omitempty"`
}

type SurveyResults struct {
	SurveyID      string           `json:"surveyId"`
	Title         string           `json:"title"`
	ResponseCount int              `json:"responseCount"`
	Questions     []QuestionResult `json:"questions"`
}
