package user

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// User is one active participant, keyed by its connection id for the
// lifetime of the session. Usernames are unique case-insensitively among
// active users; identity is trusted as given by the transport layer.
type User struct {
	ConnID   string `json:"conn_id"`
	Username string `json:"username"`
	Room     string `json:"room"`
	Role     Role   `json:"role"`
	Muted    bool   `json:"muted"`
	Banned   bool   `json:"banned"`
}

// CanModerate reports whether the user may mute or ban others.
func (u *User) CanModerate() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

type RoomUsersResponse struct {
	Room  string  `json:"room"`
	Users []*User `json:"users"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
