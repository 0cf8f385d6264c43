package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomchat_messages_created_total",
		Help: "Messages accepted into the store.",
	})

	MessagesEdited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomchat_messages_edited_total",
		Help: "Successful message edits.",
	})

	MessagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomchat_messages_deleted_total",
		Help: "Successful message soft-deletions.",
	})

	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomchat_moderation_actions_total",
		Help: "Moderation rule actions triggered, by action name.",
	}, []string{"action"})

	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomchat_ws_connections",
		Help: "Currently connected websocket clients.",
	})
)

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
