package room

// Summary describes one active room. Rooms are pure namespaces: there is
// no stored room entity, only the participants and messages that name it.
type Summary struct {
	Name         string `json:"name"`
	UserCount    int    `json:"user_count"`
	MessageCount int    `json:"message_count"`
}

type ListResponse struct {
	Rooms []Summary `json:"rooms"`
}
