package domain

// CandidateTask is an unpersisted, task-shaped record extracted from a brain
// dump. It has no ID, status or creation time; the caller turns it into a
// Task through the create operation once the user confirms it.
type CandidateTask struct {
	Title            string  `json:"title"`
	Category         *string `json:"category"`
	Priority         *string `json:"priority"`
	EstimatedMinutes *int    `json:"estimated_minutes"`
	DueDate          *Date   `json:"due_date"`
}
