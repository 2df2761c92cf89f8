package auth

import "time"

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	EmployeeID  string    `json:"employee_id"`
	CompanyID   string    `json:"company_id"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}
