package adept

// EntryKind is the declared type of a node in the activation tree.
type EntryKind int

const (
	KindOther EntryKind = iota
	KindCredentials
	KindUser
	KindUsername
	KindPrivateLicenseKey
)

// ParseEntryKind maps a declared type string to its kind. Matching is exact;
// anything unrecognized is KindOther.
func ParseEntryKind(s string) EntryKind {
	switch s {
	case "credentials":
		return KindCredentials
	case "user":
		return KindUser
	case "username":
		return KindUsername
	case "privateLicenseKey":
		return KindPrivateLicenseKey
	default:
		return KindOther
	}
}

func (k EntryKind) String() string {
	switch k {
	case KindCredentials:
		return "credentials"
	case KindUser:
		return "user"
	case KindUsername:
		return "username"
	case KindPrivateLicenseKey:
		return "privateLicenseKey"
	default:
		return "other"
	}
}
