package usecase

import (
	"context"
	"fmt"
	"time"

	"main/config"
	"main/dto"
	"main/model"
	"main/services"
)

// EmergencyAccessService assembles the payload a verified guardian sees
// and signs download URLs for individual documents. Everything it hands
// out is filtered through the permission evaluator against the token's
// frozen scopes.
type EmergencyAccessService struct {
	Guardians GuardianStore
	Documents DocumentStore
	Profiles  ProfileStore
	Config    config.ShieldConfig
}

// BuildAccessData collects the guardian-visible view for a verified
// token: permitted documents, emergency contacts and the survivor
// manual reference.
func (s *EmergencyAccessService) BuildAccessData(ctx context.Context, token *model.AccessToken) (*dto.EmergencyAccessData, error) {
	guardian, err := s.Guardians.Get(ctx, token.GuardianID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guardian: %w", err)
	}
	if guardian == nil {
		return nil, fmt.Errorf("guardian %s: %w", token.GuardianID, model.ErrNotFound)
	}

	scopes := model.ScopesFromStrings(token.Scopes)

	documents, err := s.Documents.ListByUser(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	permitted := FilterDocuments(scopes, documents)
	documentInfos := make([]dto.DocumentInfo, 0, len(permitted))
	for _, doc := range permitted {
		documentInfos = append(documentInfos, dto.DocumentInfo{
			ID:        doc.ID,
			Title:     doc.Title,
			Type:      doc.FileType,
			Category:  string(doc.Category),
			CreatedAt: doc.CreatedAt.Format(time.RFC3339),
		})
	}

	contacts, err := s.emergencyContacts(ctx, token.UserID, token.GuardianID)
	if err != nil {
		return nil, err
	}

	userName := token.UserID
	if profile, err := s.Profiles.Get(ctx, token.UserID); err == nil && profile != nil {
		userName = profile.FullName
	}

	return &dto.EmergencyAccessData{
		UserName:     userName,
		GuardianName: guardian.Name,
		GuardianPermissions: dto.GuardianPermissionsInfo{
			CanAccessHealthDocs:    model.HasScope(scopes, model.ScopeHealthDocs),
			CanAccessFinancialDocs: model.HasScope(scopes, model.ScopeFinancialDocs),
			IsChildGuardian:        model.HasScope(scopes, model.ScopeChildGuardian),
			IsWillExecutor:         model.HasScope(scopes, model.ScopeWillExecutor),
		},
		ActivationDate: token.IssuedAt.Format(time.RFC3339),
		ExpiresAt:      token.ExpiresAt.Format(time.RFC3339),
		SurvivorManual: dto.SurvivorManualRef{
			URL: fmt.Sprintf("%s/manual/%s", s.Config.BaseURL, token.UserID),
		},
		Documents:         documentInfos,
		EmergencyContacts: contacts,
	}, nil
}

// SignDownload authorizes a single document fetch for a verified token.
// Ownership and scope are both checked: a document outside the granted
// scope is forbidden, a document under another user is simply not found.
func (s *EmergencyAccessService) SignDownload(ctx context.Context, token *model.AccessToken, documentID string) (*dto.DocumentDownloadData, error) {
	document, err := s.Documents.Get(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if document == nil || document.UserID != token.UserID {
		return nil, fmt.Errorf("document %s: %w", documentID, model.ErrNotFound)
	}

	scopes := model.ScopesFromStrings(token.Scopes)
	if !Allows(scopes, document.Category, document.Meta) {
		return nil, fmt.Errorf("scope does not cover category %s: %w", document.Category, model.ErrForbidden)
	}

	downloadToken, err := services.GenerateDownloadToken(document.ID, token.GuardianID, s.Config.DownloadLinkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign download link: %w", err)
	}

	expiresAt := time.Now().Add(s.Config.DownloadLinkTTL)
	return &dto.DocumentDownloadData{
		DownloadURL: fmt.Sprintf("%s/storage/%s?token=%s", s.Config.BaseURL, document.StoragePath, downloadToken),
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

// emergencyContacts builds the contact cards from the user's other
// guardians, ordered by priority.
func (s *EmergencyAccessService) emergencyContacts(ctx context.Context, userID, excludeGuardianID string) ([]model.EmergencyContact, error) {
	guardians, err := s.Guardians.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guardians: %w", err)
	}

	contacts := make([]model.EmergencyContact, 0, len(guardians))
	for _, g := range guardians {
		if g.ID == excludeGuardianID {
			continue
		}
		contacts = append(contacts, model.EmergencyContact{
			Name:         g.Name,
			Relationship: g.Relationship,
			Email:        g.Email,
			Phone:        g.Phone,
			CanHelpWith:  g.Permissions.CanHelpWith(),
		})
	}

	return contacts, nil
}
