package utils

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// RoomCounter is satisfied by the message store and the user registry; the
// health endpoint reports their per-room totals as liveness evidence.
type RoomCounter interface {
	Counts() map[string]int
}

type HealthChecker struct {
	Messages RoomCounter
	Users    RoomCounter
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	var services []Service

	if h.Messages != nil {
		total := 0
		for _, n := range h.Messages.Counts() {
			total += n
		}
		services = append(services, Service{
			Name:    "MessageStore",
			Status:  "up",
			Message: fmt.Sprintf("%d messages", total),
		})
	}

	if h.Users != nil {
		total := 0
		for _, n := range h.Users.Counts() {
			total += n
		}
		services = append(services, Service{
			Name:    "UserRegistry",
			Status:  "up",
			Message: fmt.Sprintf("%d active users", total),
		})
	}

	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}
