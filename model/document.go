package model

import "time"

// DocumentMeta is the access-relevant metadata of a protected document.
type DocumentMeta struct {
	// MinorDependent marks a document belonging to a minor dependent.
	// Such documents additionally require the childGuardian scope
	// regardless of category.
	MinorDependent bool `bson:"minor_dependent" json:"minor_dependent"`
}

// Document is the stored metadata of a protected document. The document
// content itself lives in the external document store; only the
// reference and category live here.
type Document struct {
	ID          string       `bson:"document_id" json:"document_id"`
	UserID      string       `bson:"user_id" json:"user_id"`
	Title       string       `bson:"title" json:"title"`
	FileType    string       `bson:"file_type" json:"file_type"`
	Category    Category     `bson:"category" json:"category"`
	Meta        DocumentMeta `bson:"meta" json:"meta"`
	StoragePath string       `bson:"storage_path" json:"-"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
}

// EmergencyContact is the contact-card view of a guardian shown to
// another guardian granted emergency access.
type EmergencyContact struct {
	Name         string   `json:"name"`
	Relationship string   `json:"relationship"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone,omitempty"`
	CanHelpWith  []string `json:"can_help_with"`
}
