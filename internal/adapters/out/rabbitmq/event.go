// Package rabbitmq publishes committed audit entries to a topic exchange.
package rabbitmq

import (
	"time"

	"exportflow/internal/core/domain/model/milestone"
)

// ExchangeName is the durable topic exchange audit events are published to.
const ExchangeName = "exportflow.events"

// Event is the JSON body of a published audit entry.
type Event struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	MilestoneID *string   `json:"milestone_id,omitempty"`
	ActorID     string    `json:"actor_id"`
	Action      string    `json:"action"`
	FromStatus  string    `json:"from_status,omitempty"`
	ToStatus    string    `json:"to_status,omitempty"`
	Note        string    `json:"note,omitempty"`
	At          time.Time `json:"at"`
}

// NewEvent converts an audit entry.
func NewEvent(e milestone.LogEntry) Event {
	ev := Event{
		ID:      e.ID().String(),
		OrderID: e.OrderID().String(),
		ActorID: e.ActorID(),
		Action:  string(e.Action()),
		Note:    e.Note(),
		At:      e.At().UTC(),
	}
	if id := e.MilestoneID(); id != nil {
		s := id.String()
		ev.MilestoneID = &s
	}
	if s := e.FromStatus(); s != nil {
		ev.FromStatus = s.String()
	}
	if s := e.ToStatus(); s != nil {
		ev.ToStatus = s.String()
	}
	return ev
}

// RoutingKey is milestone.<action>, e.g. milestone.auto_advanced.
func RoutingKey(e milestone.LogEntry) string {
	return "milestone." + string(e.Action())
}
