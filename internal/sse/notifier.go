package sse

import (
	"time"

	"github.com/GTDGit/vendor_console/internal/console"
	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// HubNotifier implements console.Notifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
	now func() time.Time
}

var _ console.Notifier = (*HubNotifier)(nil)

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub, now: time.Now}
}

func (n *HubNotifier) RecordUpdated(rec vendoractivo.Record) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&RecordEvent{
		Event:     EventRecordUpdated,
		RecordID:  rec.ID,
		Record:    &rec,
		Timestamp: n.now(),
	})
}

func (n *HubNotifier) RecordDeleted(id string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&RecordEvent{
		Event:     EventRecordDeleted,
		RecordID:  id,
		Timestamp: n.now(),
	})
}

func (n *HubNotifier) PageLoaded(page console.Pagination) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&RecordEvent{
		Event:      EventPageLoaded,
		Pagination: &page,
		Timestamp:  n.now(),
	})
}
