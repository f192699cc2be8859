package authclient

// Status is the client's authentication state. It starts unresolved and
// settles to anonymous or authenticated after the first session sync; there
// is no terminal state.
type Status string

const (
	StatusUnresolved    Status = "unresolved"
	StatusAnonymous     Status = "anonymous"
	StatusAuthenticated Status = "authenticated"
)

// Role mirrors the server's role wire values.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
)

// AuthUser is the client's read-only mirror of a provider user. Timestamps
// stay strings: the client renders them, it never computes with them.
type AuthUser struct {
	UUID          string `json:"uuid"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	BirthDate     string `json:"birthDate"`
	VerifiedEmail bool   `json:"verifiedEmail"`
	Role          Role   `json:"role"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// Stable machine-readable error codes; callers use them as lookup keys and
// never see raw transport errors.
const (
	CodeInvalidCredentials = "auth.errors.invalidCredentials"
	CodeSignupFailed       = "auth.errors.signupFailed"
)

// State is the observable snapshot of the session state machine.
type State struct {
	Status    Status
	User      *AuthUser
	ErrorCode string
	Loading   bool
}

// LoggedIn reports whether the snapshot is authenticated.
func (s State) LoggedIn() bool { return s.Status == StatusAuthenticated }

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
