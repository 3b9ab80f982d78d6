package dto

type InactivityResult struct {
	UserID                 string   `json:"userId"`
	LastSignIn             string   `json:"lastSignIn"`
	DaysSinceLastSignIn    int      `json:"daysSinceLastSignIn"`
	InactivityPeriodMonths int      `json:"inactivityPeriodMonths"`
	ShouldNotify           bool     `json:"shouldNotify"`
	GuardianEmails         []string `json:"guardianEmails,omitempty"`
}

type CheckInactivityResponse struct {
	Success                bool               `json:"success"`
	Checked                int                `json:"checked"`
	NotificationsTriggered int                `json:"notificationsTriggered"`
	Results                []InactivityResult `json:"results"`
}

type ProtocolCheckerResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Triggered int    `json:"triggered"`
}

type ShieldSettingsRequest struct {
	IsShieldEnabled        bool `json:"is_shield_enabled"`
	InactivityPeriodMonths int  `json:"inactivity_period_months" binding:"required,min=1,max=24"`
	RequiredGuardians      int  `json:"required_guardians" binding:"required,min=1"`
}

type SystemStatusData struct {
	EnabledShields       int64 `json:"enabled_shields"`
	CollectingRequests   int64 `json:"collecting_requests"`
	PendingNotifications int64 `json:"pending_notifications"`
}
