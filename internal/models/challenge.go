package models

type ChallengeDescriptor struct {
	Title       string `json:"title" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description"`
}

type TaskResponse struct {
	TaskTitle       string `json:"task_title"`
	TaskDescription string `json:"task_description"`
	Response        string `json:"response"`
}

// ChallengeGradingRequest holds every task of one submission, in task order.
type ChallengeGradingRequest struct {
	Challenge ChallengeDescriptor `json:"challenge"`
	Tasks     []TaskResponse      `json:"tasks"`
}

// GradingResult is the normalized outcome of one automated grading.
type GradingResult struct {
	TaskScores     []int    `json:"task_scores"`
	OverallScore   int      `json:"overall_score"`
	Skills         []string `json:"skills"`
	Feedback       string   `json:"feedback"`
	PlagiarismFlag bool     `json:"plagiarism_flag"`

	// DefaultedTaskScores is set when the model returned fewer task scores
	// than tasks and every task received the neutral default.
	DefaultedTaskScores bool `json:"defaulted_task_scores"`
}
