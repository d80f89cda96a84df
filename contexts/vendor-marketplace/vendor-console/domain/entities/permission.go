package entities

// IdentityStatus tracks what the identity provider has reported so far.
type IdentityStatus int

const (
	IdentityUnresolved IdentityStatus = iota
	IdentityNull
	IdentitySubject
)

// Identity is one identity-provider event. It is comparable, so repeated
// reports of the same identity can be detected with ==.
type Identity struct {
	Status    IdentityStatus
	SubjectID string
}

func UnresolvedIdentity() Identity {
	return Identity{Status: IdentityUnresolved}
}

func NullIdentity() Identity {
	return Identity{Status: IdentityNull}
}

// SubjectIdentity returns the identity for subjectID, or the null identity
// when subjectID is empty.
func SubjectIdentity(subjectID string) Identity {
	if subjectID == "" {
		return NullIdentity()
	}
	return Identity{Status: IdentitySubject, SubjectID: subjectID}
}

type PermissionStatus int

const (
	PermissionUnresolved PermissionStatus = iota
	PermissionResolving
	PermissionGranted
	PermissionDenied
)

func (s PermissionStatus) String() string {
	switch s {
	case PermissionUnresolved:
		return "unresolved"
	case PermissionResolving:
		return "resolving"
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// PermissionState is the resolver snapshot. Failed is set only on Denied
// when the role query errored, so callers can tell an outage from a refusal.
type PermissionState struct {
	Status    PermissionStatus
	SubjectID string
	Failed    bool
}

// Terminal reports whether the state is Granted or Denied.
func (s PermissionState) Terminal() bool {
	return s.Status == PermissionGranted || s.Status == PermissionDenied
}

func (s PermissionState) Granted() bool {
	return s.Status == PermissionGranted
}
