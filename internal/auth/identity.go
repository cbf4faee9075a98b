package auth

// Provider names the strategy that established an identity. The set is
// closed; adding a provider means adding a constant and its package.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderNaver  Provider = "naver"
)

func (p Provider) String() string {
	return string(p)
}

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       Provider
	ProviderUserID string // provider-scoped unique user identifier (sub / id)
	Email          string
	EmailVerified  bool
	Name           string
}

// VerifiedIdentity is an internal user the system has confirmed. It is
// produced once by a verifier and handed to the session manager.
type VerifiedIdentity struct {
	UserID   string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Provider Provider `json:"provider"`
}

// Credentials are the local email/password (and registration name) taken
// from a request body. They are never persisted as-is.
type Credentials struct {
	Email    string
	Password string
	Name     string
}
