package dto

type GuardianPermissionsRequest struct {
	CanAccessHealthDocs    bool `json:"can_access_health_docs"`
	CanAccessFinancialDocs bool `json:"can_access_financial_docs"`
	IsChildGuardian        bool `json:"is_child_guardian"`
	IsWillExecutor         bool `json:"is_will_executor"`
}

type CreateGuardianRequest struct {
	Name                string                     `json:"name" binding:"required,min=1,max=100"`
	Email               string                     `json:"email" binding:"required,email"`
	Phone               string                     `json:"phone"`
	Relationship        string                     `json:"relationship"`
	CanTriggerEmergency bool                       `json:"can_trigger_emergency"`
	Priority            int                        `json:"priority" binding:"min=0"`
	Permissions         GuardianPermissionsRequest `json:"permissions"`
}

type UpdateGuardianRequest struct {
	Name                string                     `json:"name" binding:"required,min=1,max=100"`
	Email               string                     `json:"email" binding:"required,email"`
	Phone               string                     `json:"phone"`
	Relationship        string                     `json:"relationship"`
	CanTriggerEmergency bool                       `json:"can_trigger_emergency"`
	Priority            int                        `json:"priority" binding:"min=0"`
	Permissions         GuardianPermissionsRequest `json:"permissions"`
}
