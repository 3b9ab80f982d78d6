package model

import "time"

// GuardianPermissions are the capability flags granted to a guardian by
// the protected user. They are snapshotted into token scopes at issuance.
type GuardianPermissions struct {
	CanAccessHealthDocs    bool `bson:"can_access_health_docs" json:"can_access_health_docs"`
	CanAccessFinancialDocs bool `bson:"can_access_financial_docs" json:"can_access_financial_docs"`
	IsChildGuardian        bool `bson:"is_child_guardian" json:"is_child_guardian"`
	IsWillExecutor         bool `bson:"is_will_executor" json:"is_will_executor"`
}

// Scopes maps the permission flags to the scope set they grant.
func (p GuardianPermissions) Scopes() []Scope {
	var scopes []Scope
	if p.CanAccessHealthDocs {
		scopes = append(scopes, ScopeHealthDocs)
	}
	if p.CanAccessFinancialDocs {
		scopes = append(scopes, ScopeFinancialDocs)
	}
	if p.IsChildGuardian {
		scopes = append(scopes, ScopeChildGuardian)
	}
	if p.IsWillExecutor {
		scopes = append(scopes, ScopeWillExecutor)
	}
	return scopes
}

// CanHelpWith describes the permission flags in contact-card terms.
func (p GuardianPermissions) CanHelpWith() []string {
	var topics []string
	if p.CanAccessHealthDocs {
		topics = append(topics, "Health documents and medical matters")
	}
	if p.CanAccessFinancialDocs {
		topics = append(topics, "Financial accounts and documents")
	}
	if p.IsChildGuardian {
		topics = append(topics, "Care of minor children")
	}
	if p.IsWillExecutor {
		topics = append(topics, "Will and estate matters")
	}
	return topics
}

type Guardian struct {
	ID                  string              `bson:"guardian_id" json:"guardian_id"`
	UserID              string              `bson:"user_id" json:"user_id"`
	Name                string              `bson:"name" json:"name" validate:"required,min=1,max=100"`
	Email               string              `bson:"email" json:"email" validate:"required,email"`
	Phone               string              `bson:"phone" json:"phone,omitempty"`
	Relationship        string              `bson:"relationship" json:"relationship,omitempty"`
	CanTriggerEmergency bool                `bson:"can_trigger_emergency" json:"can_trigger_emergency"`
	Priority            int                 `bson:"priority" json:"priority"`
	Permissions         GuardianPermissions `bson:"permissions" json:"permissions"`
	CreatedAt           time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `bson:"updated_at" json:"updated_at"`
}
