package types

import "strings"

// UserType values carried in token claims.
const (
	UserTypeRegistered = "registered"
	UserTypeTemp       = "temp"
)

// guestKeyPrefix marks a persisted owner key as a guest token. The prefix
// check lives here and nowhere else; business logic works with Principal.
const guestKeyPrefix = "temp_"

// Principal identifies the acting account for a request: either a registered
// user (database id) or a guest session (opaque temp token). Exactly one of
// the two identities is set.
type Principal struct {
	UserType string `json:"userType"`
	ID       string `json:"id,omitempty"`
	TempID   string `json:"tempId,omitempty"`
}

// RegisteredPrincipal builds a Principal for a registered user id.
func RegisteredPrincipal(id string) Principal {
	return Principal{UserType: UserTypeRegistered, ID: id}
}

// GuestPrincipal builds a Principal for a guest temp token.
func GuestPrincipal(tempID string) Principal {
	return Principal{UserType: UserTypeTemp, TempID: tempID}
}

// PrincipalFromKey reconstructs a Principal from a persisted owner key.
// Goal and Progress documents store the owner as a plain string that holds
// either an ObjectID hex or a temp_... token; this is the single place that
// discriminates between the two.
func PrincipalFromKey(key string) Principal {
	if strings.HasPrefix(key, guestKeyPrefix) {
		return GuestPrincipal(key)
	}
	return RegisteredPrincipal(key)
}

// IsGuest reports whether the principal is a temporary guest session.
func (p Principal) IsGuest() bool {
	return p.UserType == UserTypeTemp
}

// StorageKey flattens the principal to the single string form stored on
// owned documents.
func (p Principal) StorageKey() string {
	if p.IsGuest() {
		return p.TempID
	}
	return p.ID
}

// OwnsKey reports whether a resource's stored owner key is among the
// principal's owner keys (a registered user may own under both its id and a
// linked tempId from a prior guest session).
func OwnsKey(ownerKeys []string, resourceKey string) bool {
	for _, k := range ownerKeys {
		if k == resourceKey {
			return true
		}
	}
	return false
}
