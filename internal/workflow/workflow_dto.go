package workflow

type UpsertRuleRequest struct {
	Name                    string   `json:"name" binding:"required,max=150"`
	Priority                int      `json:"priority"`
	IsActive                *bool    `json:"is_active"`
	RequesterRoles          []string `json:"requester_roles"`
	LeaveTypeIDs            []string `json:"leave_type_ids" binding:"omitempty,dive,uuid"`
	DepartmentIDs           []string `json:"department_ids" binding:"omitempty,dive,uuid"`
	DaysGreaterThan         *int     `json:"days_greater_than" binding:"omitempty,gte=0"`
	DaysLessThan            *int     `json:"days_less_than" binding:"omitempty,gte=1"`
	ApprovalChain           []string `json:"approval_chain" binding:"required,min=1"`
	SkipDuplicateSignatures bool     `json:"skip_duplicate_signatures"`
}

type RuleResponse struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	Priority                int      `json:"priority"`
	IsActive                bool     `json:"is_active"`
	RequesterRoles          []string `json:"requester_roles"`
	LeaveTypeIDs            []string `json:"leave_type_ids"`
	DepartmentIDs           []string `json:"department_ids"`
	DaysGreaterThan         *int     `json:"days_greater_than"`
	DaysLessThan            *int     `json:"days_less_than"`
	ApprovalChain           []string `json:"approval_chain"`
	SkipDuplicateSignatures bool     `json:"skip_duplicate_signatures"`
}
