package balance

type BalanceResponse struct {
	LeaveTypeID    string `json:"leave_type_id"`
	LeaveTypeCode  string `json:"leave_type_code,omitempty"`
	LeaveTypeName  string `json:"leave_type_name,omitempty"`
	Year           int    `json:"year"`
	Entitled       int    `json:"entitled"`
	Available      int    `json:"available"`
	Pending        int    `json:"pending"`
	Used           int    `json:"used"`
	CarriedForward int    `json:"carried_forward"`
}

type CreateLeaveTypeRequest struct {
	Code                string `json:"code" binding:"required,max=30"`
	Name                string `json:"name" binding:"required,max=100"`
	DefaultEntitlement  int    `json:"default_entitlement" binding:"gte=0,lte=366"`
	CarryForwardEnabled bool   `json:"carry_forward_enabled"`
	MaxCarryForward     *int   `json:"max_carry_forward" binding:"omitempty,gte=0"`
}

type LeaveTypeResponse struct {
	ID                  string `json:"id"`
	Code                string `json:"code"`
	Name                string `json:"name"`
	DefaultEntitlement  int    `json:"default_entitlement"`
	CarryForwardEnabled bool   `json:"carry_forward_enabled"`
	MaxCarryForward     *int   `json:"max_carry_forward"`
	IsActive            bool   `json:"is_active"`
}
