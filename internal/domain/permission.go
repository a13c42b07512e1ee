package domain

// PermissionLevel is the ordered trust tier of a user.
type PermissionLevel int

const (
	PermissionBanned        PermissionLevel = 1
	PermissionWarned        PermissionLevel = 2
	PermissionStandard      PermissionLevel = 3
	PermissionManager       PermissionLevel = 4
	PermissionAdministrator PermissionLevel = 5
)

// AtLeast reports whether p is level or higher.
func (p PermissionLevel) AtLeast(level PermissionLevel) bool {
	return p >= level
}

// Exceeds reports whether p is strictly higher than level.
func (p PermissionLevel) Exceeds(level PermissionLevel) bool {
	return p > level
}

// Valid reports whether p is one of the known levels.
func (p PermissionLevel) Valid() bool {
	return p >= PermissionBanned && p <= PermissionAdministrator
}

func (p PermissionLevel) String() string {
	switch p {
	case PermissionBanned:
		return "banned"
	case PermissionWarned:
		return "warned"
	case PermissionStandard:
		return "standard"
	case PermissionManager:
		return "manager"
	case PermissionAdministrator:
		return "administrator"
	default:
		return "unknown"
	}
}
