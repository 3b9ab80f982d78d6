package dto

import "main/model"

type VerifyAccessRequest struct {
	Token            string `json:"token" binding:"required"`
	VerificationCode string `json:"verification_code" binding:"omitempty,verification_code"`
}

type ConfirmRequest struct {
	ConfirmationToken string `json:"confirmation_token" binding:"required"`
}

type RequestAccessRequest struct {
	ConfirmationToken string `json:"confirmation_token" binding:"required"`
}

// AccessTokenData is returned on issuance. The verification code is
// never in here; it travels out of band through the notifier.
type AccessTokenData struct {
	AccessToken string   `json:"access_token"`
	ExpiresAt   string   `json:"expires_at"`
	Scopes      []string `json:"scopes"`
}

type DocumentDownloadRequest struct {
	Token            string `json:"token" binding:"required"`
	VerificationCode string `json:"verification_code" binding:"required,verification_code"`
	DocumentID       string `json:"document_id" binding:"required"`
}

type GuardianPermissionsInfo struct {
	CanAccessHealthDocs    bool `json:"can_access_health_docs"`
	CanAccessFinancialDocs bool `json:"can_access_financial_docs"`
	IsChildGuardian        bool `json:"is_child_guardian"`
	IsWillExecutor         bool `json:"is_will_executor"`
}

type DocumentInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	CreatedAt string `json:"created_at"`
}

type SurvivorManualRef struct {
	URL string `json:"url"`
}

// EmergencyAccessData is the payload a verified guardian receives:
// identity, frozen permissions, the documents their scopes allow, the
// survivor manual reference and the other emergency contacts.
type EmergencyAccessData struct {
	UserName            string                   `json:"user_name"`
	GuardianName        string                   `json:"guardian_name"`
	GuardianPermissions GuardianPermissionsInfo  `json:"guardian_permissions"`
	ActivationDate      string                   `json:"activation_date"`
	ExpiresAt           string                   `json:"expires_at"`
	SurvivorManual      SurvivorManualRef        `json:"survivor_manual"`
	Documents           []DocumentInfo           `json:"documents"`
	EmergencyContacts   []model.EmergencyContact `json:"emergency_contacts"`
}

type DocumentDownloadData struct {
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}
