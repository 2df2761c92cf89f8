package leave

type CreateLeaveRequest struct {
	LeaveTypeID  string   `json:"leave_type_id" binding:"required,uuid"`
	StartDate    string   `json:"start_date" binding:"required_without=Dates"`
	EndDate      string   `json:"end_date" binding:"required_without=Dates"`
	Dates        []string `json:"dates" binding:"omitempty,max=366,dive,required"`
	Reason       string   `json:"reason" binding:"max=2000"`
	SubstituteID *string  `json:"substitute_id" binding:"omitempty,uuid"`
}

type CreateWFHRequest struct {
	StartDate string   `json:"start_date" binding:"required_without=Dates"`
	EndDate   string   `json:"end_date" binding:"required_without=Dates"`
	Dates     []string `json:"dates" binding:"omitempty,max=366,dive,required"`
	Reason    string   `json:"reason" binding:"max=2000"`
}

type DecisionRequest struct {
	Comment   string `json:"comment" binding:"max=2000"`
	Signature string `json:"signature" binding:"max=100000"`
}

type ApprovalResponse struct {
	Level        int     `json:"level"`
	ApproverID   string  `json:"approver_id"`
	ApproverRole string  `json:"approver_role"`
	Status       string  `json:"status"`
	Comments     *string `json:"comments,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
}

type RequestResponse struct {
	ID            string             `json:"id"`
	RequestNumber string             `json:"request_number"`
	Kind          string             `json:"kind"`
	CompanyID     string             `json:"company_id"`
	EmployeeID    string             `json:"employee_id"`
	LeaveTypeID   *string            `json:"leave_type_id,omitempty"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
	Dates         []string           `json:"dates,omitempty"`
	TotalDays     int                `json:"total_days"`
	Reason        string             `json:"reason"`
	SubstituteID  *string            `json:"substitute_id,omitempty"`
	Status        string             `json:"status"`
	DecidedAt     *string            `json:"decided_at,omitempty"`
	CreatedAt     string             `json:"created_at"`
	Approvals     []ApprovalResponse `json:"approvals"`
}

type DecisionResponse struct {
	RequestID   string `json:"request_id"`
	Status      string `json:"status"`
	AllApproved bool   `json:"allApproved"`
}
