package room

import (
	"sort"

	"roomchat/internal/app/message"
	"roomchat/internal/app/user"
)

type Service interface {
	ListRooms() []Summary
}

type service struct {
	store    *message.Store
	registry *user.Registry
}

func NewService(store *message.Store, registry *user.Registry) Service {
	return &service{store: store, registry: registry}
}

// ListRooms merges the rooms known to the registry and the store: a room is
// active while anyone is present in it or any message names it.
func (s *service) ListRooms() []Summary {
	userCounts := s.registry.RoomUserCounts()
	messageCounts := s.store.RoomMessageCounts()

	names := make(map[string]bool)
	for name := range userCounts {
		names[name] = true
	}
	for name := range messageCounts {
		names[name] = true
	}

	rooms := make([]Summary, 0, len(names))
	for name := range names {
		rooms = append(rooms, Summary{
			Name:         name,
			UserCount:    userCounts[name],
			MessageCount: messageCounts[name],
		})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms
}
