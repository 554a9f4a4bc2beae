package dashboard

// SummaryResponse is the admin overview of headline counts.
type SummaryResponse struct {
	TotalEmployees    int64  `json:"total_employees"`
	TotalDepartments  int64  `json:"total_departments"`
	TotalDesignations int64  `json:"total_designations"`
	TotalLeaves       int64  `json:"total_leaves"`
	PendingLeaves     int64  `json:"pending_leaves"`
	PendingTasks      int64  `json:"pending_tasks"`
	Attendance        Daily  `json:"attendance"`
	UpdatedAt         string `json:"updated_at"`
}

// Daily counts attendance rows by status for one date.
type Daily struct {
	Date    string `json:"date"`
	Present int64  `json:"present"`
	Absent  int64  `json:"absent"`
	Leave   int64  `json:"leave"`
}
