package rollover

type PlanItem struct {
	EmployeeID     string `json:"employee_id"`
	LeaveTypeID    string `json:"leave_type_id"`
	LeaveTypeCode  string `json:"leave_type_code"`
	PriorAvailable int    `json:"prior_available"`
	CarriedForward int    `json:"carried_forward"`
	Entitled       int    `json:"entitled"`
	Available      int    `json:"available"`
	// Exists is true when the next-year balance is already there and will be left alone.
	Exists bool `json:"exists"`
}

type PlanResponse struct {
	FromYear   int        `json:"from_year"`
	ToYear     int        `json:"to_year"`
	Executed   bool       `json:"executed"`
	ExecutedAt *string    `json:"executed_at,omitempty"`
	Created    int        `json:"created"`
	Skipped    int        `json:"skipped"`
	Items      []PlanItem `json:"items"`
}
