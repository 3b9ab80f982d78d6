package usecase

import "main/model"

// categoryScopes maps every document category to the single scope that
// unlocks it. The mapping is total: a category missing here (including
// "other") is denied no matter what scopes the guardian holds.
var categoryScopes = map[model.Category]model.Scope{
	model.CategoryHealth:    model.ScopeHealthDocs,
	model.CategoryFinancial: model.ScopeFinancialDocs,
	model.CategoryWill:      model.ScopeWillExecutor,
	model.CategoryLegal:     model.ScopeWillExecutor,
}

// Allows reports whether the scope set grants access to a document of
// the given category. Deny by default: absence of the required scope is
// a denial, never an implicit allow. Documents belonging to a minor
// dependent additionally require the childGuardian scope regardless of
// category.
//
// Pure function, safe to call unboundedly when filtering document sets.
func Allows(scopes []model.Scope, category model.Category, meta model.DocumentMeta) bool {
	required, ok := categoryScopes[category]
	if !ok {
		// Unmapped categories (and "other") are only reachable when
		// the category itself was explicitly granted as a scope.
		if !model.HasScope(scopes, model.Scope(category)) {
			return false
		}
	} else if !model.HasScope(scopes, required) {
		return false
	}

	if meta.MinorDependent && !model.HasScope(scopes, model.ScopeChildGuardian) {
		return false
	}

	return true
}

// FilterDocuments returns the subset of documents the scope set allows.
func FilterDocuments(scopes []model.Scope, documents []*model.Document) []*model.Document {
	allowed := make([]*model.Document, 0, len(documents))
	for _, doc := range documents {
		if Allows(scopes, doc.Category, doc.Meta) {
			allowed = append(allowed, doc)
		}
	}
	return allowed
}
