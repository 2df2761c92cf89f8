package document

type SignatureResponse struct {
	SignerID   string `json:"signer_id"`
	SignerRole string `json:"signer_role"`
	Signed     bool   `json:"signed"`
	SignedAt   string `json:"signed_at"`
}

type DocumentResponse struct {
	ID               string              `json:"id"`
	RequestID        string              `json:"request_id"`
	TemplateID       string              `json:"template_id"`
	Status           string              `json:"status"`
	VerificationCode string              `json:"verification_code"`
	Signatures       []SignatureResponse `json:"signatures"`
	CreatedAt        string              `json:"created_at"`
}

type VerificationQRResponse struct {
	VerificationCode string `json:"verification_code"`
	QRCodeImage      string `json:"qr_code_image"`
}
