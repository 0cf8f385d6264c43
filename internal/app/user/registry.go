package user

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"roomchat/internal/apperrors"

	"go.uber.org/zap"
)

var (
	// ErrUsernameTaken is an ordinary join outcome, not a structural
	// failure: the name collides case-insensitively with an active user.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrConnRegistered means the connection id already has a user.
	ErrConnRegistered = errors.New("connection already registered")
)

// Registry tracks active participants in two indices: by connection id and
// by lowercased username. Both are updated under one lock so their
// cardinalities always agree.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*User
	byName map[string]string
	logger *zap.SugaredLogger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		byConn: make(map[string]*User),
		byName: make(map[string]string),
		logger: logger.Sugar(),
	}
}

// Join registers a participant. Collisions (username or connection id) are
// returned as ordinary error values for the transport to report.
func (r *Registry) Join(connID, username, room string, role Role) (*User, error) {
	if connID == "" || username == "" || room == "" {
		return nil, fmt.Errorf("%w: connection id, username and room are required", apperrors.ErrInvalidArgument)
	}
	if role == "" {
		role = RoleUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byConn[connID]; exists {
		return nil, ErrConnRegistered
	}
	key := strings.ToLower(username)
	if _, exists := r.byName[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	u := &User{
		ConnID:   connID,
		Username: username,
		Room:     room,
		Role:     role,
	}
	r.byConn[connID] = u
	r.byName[key] = connID
	r.checkRep()

	return cloneUser(u), nil
}

func (r *Registry) Get(connID string) *User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byConn[connID]; ok {
		return cloneUser(u)
	}
	return nil
}

func (r *Registry) GetByUsername(username string) *User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u := r.lookup(username); u != nil {
		return cloneUser(u)
	}
	return nil
}

func (r *Registry) Mute(username string) bool {
	return r.setFlag(username, func(u *User) { u.Muted = true })
}

func (r *Registry) Unmute(username string) bool {
	return r.setFlag(username, func(u *User) { u.Muted = false })
}

func (r *Registry) Ban(username string) bool {
	return r.setFlag(username, func(u *User) { u.Banned = true })
}

// Leave removes the participant from both indices and returns the removed
// record, or nil if the connection was unknown.
func (r *Registry) Leave(connID string) *User {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	delete(r.byConn, connID)
	delete(r.byName, strings.ToLower(u.Username))
	r.checkRep()

	return cloneUser(u)
}

// ListRoomUsers returns the room's active participants sorted by username.
func (r *Registry) ListRoomUsers(room string) []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*User{}
	for _, u := range r.byConn {
		if u.Room == room {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// RoomUserCounts reports active participant counts per room.
func (r *Registry) RoomUserCounts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, u := range r.byConn {
		counts[u.Room]++
	}
	return counts
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn = make(map[string]*User)
	r.byName = make(map[string]string)
}

func (r *Registry) setFlag(username string, apply func(*User)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.lookup(username)
	if u == nil {
		return false
	}
	apply(u)
	r.checkRep()
	return true
}

// lookup must be called with the lock held.
func (r *Registry) lookup(username string) *User {
	connID, ok := r.byName[strings.ToLower(username)]
	if !ok {
		return nil
	}
	return r.byConn[connID]
}

// checkRep verifies the two indices agree after every mutation. A
// violation is a bug; it is logged rather than panicking the process.
func (r *Registry) checkRep() {
	if len(r.byConn) != len(r.byName) {
		r.logger.Errorw("Registry indices diverged",
			"by_conn", len(r.byConn),
			"by_name", len(r.byName),
		)
	}
	for _, u := range r.byConn {
		if u.Room == "" {
			r.logger.Errorw("Registry user with empty room", "username", u.Username)
		}
	}
}

func cloneUser(u *User) *User {
	out := *u
	return &out
}
