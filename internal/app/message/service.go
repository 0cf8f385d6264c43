package message

import (
	"fmt"
	"unicode/utf8"

	"roomchat/internal/apperrors"
	"roomchat/internal/metrics"
	"roomchat/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Create(author, text, room, parentID string) (*Message, error)
	Edit(id, newText, requestingAuthor string) (*Message, error)
	Delete(id, requestingAuthor string) (bool, error)
	GetByID(id string) *Message
	ListForRoom(room string) []*Message
	GetThread(id string) *Message
	Search(keyword, room string) []*Message
	ThreadDepth(id string) int
	MarkRead(id string) int
	ReadReceiptCount(id string) int
}

type service struct {
	store    *Store
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
	maxLen   int
}

func NewService(store *Store, eventBus *utils.EventBus, logger *zap.Logger, maxLen int) Service {
	return &service{
		store:    store,
		eventBus: eventBus,
		logger:   logger.Sugar(),
		maxLen:   maxLen,
	}
}

func (s *service) Create(author, text, room, parentID string) (*Message, error) {
	if n := utf8.RuneCountInString(text); n > s.maxLen {
		return nil, fmt.Errorf("%w: message text must be at most %d characters, got %d",
			apperrors.ErrInvalidArgument, s.maxLen, n)
	}

	msg, err := s.store.Add(author, text, room, parentID)
	if err != nil {
		return nil, err
	}

	metrics.MessagesCreated.Inc()
	s.eventBus.Publish("message_created", msg)
	s.logger.Debugw("Message created",
		"message_id", msg.ID,
		"room", msg.Room,
		"author", msg.Author,
		"parent_id", msg.ParentID,
	)
	return msg, nil
}

func (s *service) Edit(id, newText, requestingAuthor string) (*Message, error) {
	msg, err := s.store.Edit(id, newText, requestingAuthor)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		// Authorization outcome, not an error: requester is not the author.
		return nil, nil
	}

	metrics.MessagesEdited.Inc()
	s.eventBus.Publish("message_edited", map[string]interface{}{
		"id":     msg.ID,
		"room":   msg.Room,
		"text":   msg.Text,
		"edited": msg.Edited,
		"time":   msg.Time,
	})
	return msg, nil
}

func (s *service) Delete(id, requestingAuthor string) (bool, error) {
	msg := s.store.GetByID(id)
	ok, err := s.store.Delete(id, requestingAuthor)
	if err != nil || !ok {
		return ok, err
	}

	metrics.MessagesDeleted.Inc()
	room := ""
	if msg != nil {
		room = msg.Room
	}
	s.eventBus.Publish("message_deleted", map[string]interface{}{
		"id":   id,
		"room": room,
	})
	return true, nil
}

func (s *service) GetByID(id string) *Message {
	return s.store.GetByID(id)
}

func (s *service) ListForRoom(room string) []*Message {
	return s.store.ListForRoom(room)
}

func (s *service) GetThread(id string) *Message {
	return s.store.GetThread(id)
}

func (s *service) Search(keyword, room string) []*Message {
	return s.store.Search(keyword, room)
}

func (s *service) ThreadDepth(id string) int {
	return s.store.ThreadDepth(id)
}

func (s *service) MarkRead(id string) int {
	return s.store.IncrementReadReceipt(id)
}

func (s *service) ReadReceiptCount(id string) int {
	return s.store.ReadReceiptCount(id)
}
