package model

// Scope is a named capability that gates access to a document category.
type Scope string

const (
	ScopeHealthDocs    Scope = "healthDocs"
	ScopeFinancialDocs Scope = "financialDocs"
	ScopeChildGuardian Scope = "childGuardian"
	ScopeWillExecutor  Scope = "willExecutor"
)

// Category classifies a protected document.
type Category string

const (
	CategoryHealth    Category = "health"
	CategoryFinancial Category = "financial"
	CategoryWill      Category = "will"
	CategoryLegal     Category = "legal"
	CategoryOther     Category = "other"
)

// HasScope reports whether the scope set contains the given scope.
func HasScope(scopes []Scope, scope Scope) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ScopeStrings converts a scope set to plain strings for storage.
func ScopeStrings(scopes []Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = string(s)
	}
	return out
}

// ScopesFromStrings converts stored strings back to scopes.
func ScopesFromStrings(values []string) []Scope {
	out := make([]Scope, len(values))
	for i, v := range values {
		out[i] = Scope(v)
	}
	return out
}
