package message

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"roomchat/internal/apperrors"
)

// Store owns every message record, the per-room index and the read-receipt
// counters. One RWMutex guards the whole store: every multi-step mutation
// (generate id, insert into both indices, link into the parent's reply
// list) holds the write lock for its full duration, so concurrent mutators
// serialize and readers never observe a half-built record.
type Store struct {
	mu       sync.RWMutex
	messages map[string]*Message
	rooms    map[string][]string
	receipts map[string]int
	lastTS   int64
}

func NewStore() *Store {
	return &Store{
		messages: make(map[string]*Message),
		rooms:    make(map[string][]string),
		receipts: make(map[string]int),
	}
}

// Add creates a message. parentID may be empty; when set, the parent must
// already exist and the new message is linked into its reply list as part
// of the same atomic operation.
func (s *Store) Add(author, text, room, parentID string) (*Message, error) {
	if author == "" || text == "" || room == "" {
		return nil, fmt.Errorf("%w: author, text and room are required", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var parent *Message
	if parentID != "" {
		var ok bool
		parent, ok = s.messages[parentID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrParentNotFound, parentID)
		}
	}

	ts := s.nextTimestamp()
	id := s.newID(ts)

	msg := &Message{
		ID:          id,
		Author:      author,
		Text:        text,
		Time:        displayTime(ts),
		Timestamp:   ts,
		Room:        room,
		EditHistory: []EditEntry{},
		ReplyIDs:    []string{},
		ParentID:    parentID,
	}

	s.messages[id] = msg
	s.rooms[room] = append(s.rooms[room], id)
	if parent != nil {
		parent.ReplyIDs = append(parent.ReplyIDs, id)
	}

	return snapshot(msg), nil
}

// Edit replaces the message text, pushing the prior state onto the edit
// history. A requester that is not the author gets (nil, nil): the call
// succeeded, the policy answer is no.
func (s *Store) Edit(id, newText, requestingAuthor string) (*Message, error) {
	if id == "" || newText == "" {
		return nil, fmt.Errorf("%w: id and text are required", apperrors.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, fmt.Errorf("%w: message %s", apperrors.ErrNotFound, id)
	}
	if msg.Deleted {
		return nil, fmt.Errorf("%w: cannot edit a deleted message", apperrors.ErrInvalidState)
	}
	if msg.Author != requestingAuthor {
		return nil, nil
	}

	msg.EditHistory = append(msg.EditHistory, EditEntry{
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
		Time:      msg.Time,
	})
	ts := s.nextTimestamp()
	msg.Text = newText
	msg.Edited = true
	msg.Timestamp = ts
	msg.Time = displayTime(ts)

	return snapshot(msg), nil
}

// Delete soft-deletes: the text is overwritten with the placeholder and the
// record is retained so the thread structure survives. A non-author
// requester gets (false, nil).
func (s *Store) Delete(id, requestingAuthor string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return false, fmt.Errorf("%w: message %s", apperrors.ErrNotFound, id)
	}
	if msg.Author != requestingAuthor {
		return false, nil
	}

	msg.Deleted = true
	msg.Text = DeletedPlaceholder
	return true, nil
}

// GetByID returns a snapshot of the record, deleted or not, or nil.
func (s *Store) GetByID(id string) *Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil
	}
	return snapshot(msg)
}

// ListForRoom returns every non-deleted message in the room, ascending by
// timestamp. Results are snapshots like every other read path.
func (s *Store) ListForRoom(room string) []*Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := s.listForRoom(room)
	out := make([]*Message, 0, len(live))
	for _, msg := range live {
		out = append(out, snapshot(msg))
	}
	return out
}

func (s *Store) listForRoom(room string) []*Message {
	out := []*Message{}
	for _, id := range s.rooms[room] {
		msg := s.messages[id]
		if msg != nil && !msg.Deleted {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// GetThread returns a deep copy of the message with Replies populated
// recursively, excluding deleted descendants at every level.
func (s *Store) GetThread(id string) *Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil
	}
	return s.buildThread(msg)
}

func (s *Store) buildThread(msg *Message) *Message {
	out := snapshot(msg)
	for _, childID := range msg.ReplyIDs {
		child := s.messages[childID]
		if child == nil || child.Deleted {
			continue
		}
		out.Replies = append(out.Replies, s.buildThread(child))
	}
	return out
}

// Search finds every non-deleted message in the room whose text contains
// the keyword, case-insensitively. Each node is visited exactly once: the
// room listing includes replies as well as roots, so a visited set stops
// any re-descent into subtrees already covered. Traversal is linear in
// total thread size.
func (s *Store) Search(keyword, room string) []*Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(keyword)
	visited := make(map[string]bool)
	results := []*Message{}

	var visit func(msg *Message)
	visit = func(msg *Message) {
		if visited[msg.ID] {
			return
		}
		visited[msg.ID] = true
		if strings.Contains(strings.ToLower(msg.Text), needle) {
			results = append(results, snapshot(msg))
		}
		for _, childID := range msg.ReplyIDs {
			child := s.messages[childID]
			if child != nil && !child.Deleted {
				visit(child)
			}
		}
	}

	for _, msg := range s.listForRoom(room) {
		visit(msg)
	}
	return results
}

// ThreadDepth reports the depth of the reply tree under a message: 0 for a
// message with no surviving replies, -1 for an unknown id.
func (s *Store) ThreadDepth(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return -1
	}
	return s.depth(msg)
}

func (s *Store) depth(msg *Message) int {
	max := -1
	for _, childID := range msg.ReplyIDs {
		child := s.messages[childID]
		if child == nil || child.Deleted {
			continue
		}
		if d := s.depth(child); d > max {
			max = d
		}
	}
	if max < 0 {
		return 0
	}
	return 1 + max
}

// IncrementReadReceipt bumps and returns the per-message counter. The
// counter starts at zero; increments happen under the store's write lock,
// so concurrent increments are never lost.
func (s *Store) IncrementReadReceipt(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[id]++
	return s.receipts[id]
}

func (s *Store) ReadReceiptCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.receipts[id]
}

// RoomMessageCounts reports non-deleted message counts per room.
func (s *Store) RoomMessageCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.rooms))
	for room, ids := range s.rooms {
		n := 0
		for _, id := range ids {
			if msg := s.messages[id]; msg != nil && !msg.Deleted {
				n++
			}
		}
		counts[room] = n
	}
	return counts
}

// Clear drops all state. Used for teardown and test isolation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make(map[string]*Message)
	s.rooms = make(map[string][]string)
	s.receipts = make(map[string]int)
	s.lastTS = 0
}

// nextTimestamp returns a strictly increasing nanosecond timestamp so that
// messages created in the same wall-clock tick still order deterministically.
// Callers must hold the write lock.
func (s *Store) nextTimestamp() int64 {
	ts := time.Now().UnixNano()
	if ts <= s.lastTS {
		ts = s.lastTS + 1
	}
	s.lastTS = ts
	return ts
}

// newID builds a "<unix-milli>-<random>" id and retries on the vanishingly
// unlikely collision. Callers must hold the write lock.
func (s *Store) newID(ts int64) string {
	for {
		id := fmt.Sprintf("%d-%s", ts/int64(time.Millisecond), randomSuffix())
		if _, exists := s.messages[id]; !exists {
			return id
		}
	}
}

func randomSuffix() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

func displayTime(ts int64) string {
	return time.Unix(0, ts).Format("15:04:05")
}

// snapshot copies a record so callers can never mutate store state outside
// the lock. Replies is left empty; thread views fill it.
func snapshot(msg *Message) *Message {
	out := *msg
	out.EditHistory = append([]EditEntry{}, msg.EditHistory...)
	out.ReplyIDs = append([]string{}, msg.ReplyIDs...)
	out.Replies = nil
	return &out
}
