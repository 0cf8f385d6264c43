package message

// DeletedPlaceholder replaces the text of a soft-deleted message. The
// record itself stays in the store so replies and edit history remain
// resolvable.
const DeletedPlaceholder = "[message deleted]"

// EditEntry is one prior state of a message, pushed when the message is
// edited. Entries are chronological: timestamps never decrease along the
// history.
type EditEntry struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Time      string `json:"time"`
}

// Message is one chat message record. The store is an arena keyed by id:
// threading is kept as child ids in ReplyIDs, and Replies is only populated
// on thread views built by GetThread.
type Message struct {
	ID          string      `json:"id"`
	Author      string      `json:"author"`
	Text        string      `json:"text"`
	Time        string      `json:"time"`
	Timestamp   int64       `json:"timestamp"`
	Room        string      `json:"room"`
	Edited      bool        `json:"edited"`
	EditHistory []EditEntry `json:"edit_history,omitempty"`
	Deleted     bool        `json:"deleted"`
	ParentID    string      `json:"parent_id,omitempty"`
	ReplyIDs    []string    `json:"reply_ids,omitempty"`
	Replies     []*Message  `json:"replies,omitempty"`
}

type MessageListResponse struct {
	Messages []*Message `json:"messages"`
	Total    int        `json:"total"`
}

type MessageResponse struct {
	Message *Message `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
