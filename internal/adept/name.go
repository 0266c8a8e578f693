package adept

import "strings"

// UnknownName labels a credential group that carries no identifying fields.
const UnknownName = "Unknown"

// userPrefixLen is the length of the "urn:uuid:" prefix on user values.
const userPrefixLen = 9

// NameBuilder accumulates the display name of one credential group.
// Fields are joined with "_" in the order they are added.
type NameBuilder struct {
	parts []string
}

// AddUser adds a user value with its "urn:uuid:" prefix skipped.
func (b *NameBuilder) AddUser(value string) {
	if len(value) > userPrefixLen {
		value = value[userPrefixLen:]
	} else {
		value = ""
	}
	b.parts = append(b.parts, value)
}

// AddUsername adds the optional sign-in method and account value.
func (b *NameBuilder) AddUsername(method, value *string) {
	if method != nil {
		b.parts = append(b.parts, *method)
	}
	if value != nil {
		b.parts = append(b.parts, *value)
	}
}

// String returns the accumulated name, or UnknownName when nothing was
// added.
func (b *NameBuilder) String() string {
	if len(b.parts) == 0 {
		return UnknownName
	}
	return strings.Join(b.parts, "_")
}
