package core

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/lanbeam/lanbeam/models"
)

// ClientConn is one live realtime connection as the hub sees it. The
// implementation must serialize its own writes; the hub guarantees events
// for one connection are handed over in publish order.
type ClientConn interface {
	WriteText(data []byte) error
	Close() error
}

// RegisterClient adds a connection to the hub and sends it a full snapshot
// of the records visible to it, so a late joiner reconstructs state without
// touching the history log itself. Returns the connection id used for
// unregistering.
func (c *Core) RegisterClient(conn ClientConn, isDesktop bool, deviceID string) (string, error) {
	snapshot, err := c.ListVisibleRecords(isDesktop, deviceID)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	c.mu.Lock()
	c.clients[id] = clientEntry{conn: conn, isDesktop: isDesktop, deviceID: deviceID}
	c.mu.Unlock()

	init := models.Event{Type: models.EventInit, Records: snapshot}
	payload, err := json.Marshal(init)
	if err != nil {
		c.UnregisterClient(id)
		return "", err
	}
	if err := conn.WriteText(payload); err != nil {
		c.UnregisterClient(id)
		return "", err
	}
	return id, nil
}

// UnregisterClient removes a connection from the hub. The hub never owns
// the connection's lifecycle; closing it is the caller's business.
func (c *Core) UnregisterClient(id string) {
	c.mu.Lock()
	delete(c.clients, id)
	c.mu.Unlock()
}

// ClientCount returns the number of registered realtime connections.
func (c *Core) ClientCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// Publish fans an event out to the connections allowed to see it: desktop
// connections receive everything, mobile connections only events whose
// target matches their device id (or untargeted events). Sends happen on a
// snapshot of the registry taken under the lock, so a slow or dead peer
// never blocks the critical section; a failed send silently drops that one
// connection.
func (c *Core) Publish(event models.Event, targetDeviceID string) {
	payload, err := json.Marshal(event)
	if err != nil {
		c.log.Warnw("event marshal failed", "type", event.Type, "error", err)
		return
	}

	type target struct {
		id   string
		conn ClientConn
	}
	var targets []target
	c.mu.Lock()
	for id, entry := range c.clients {
		if !entry.isDesktop {
			if targetDeviceID != "" && entry.deviceID != targetDeviceID {
				continue
			}
		}
		targets = append(targets, target{id: id, conn: entry.conn})
	}
	c.mu.Unlock()

	var dead []string
	for _, t := range targets {
		if err := t.conn.WriteText(payload); err != nil {
			dead = append(dead, t.id)
		}
	}
	if len(dead) > 0 {
		c.mu.Lock()
		for _, id := range dead {
			delete(c.clients, id)
		}
		c.mu.Unlock()
	}
}

// publishHistoryEvent loads a history row and pushes it as a new_record
// event scoped to targetDeviceID. A missing row is silently skipped; the
// event is best-effort by design.
func (c *Core) publishHistoryEvent(historyID, targetDeviceID string) {
	row, err := c.history.GetByID(historyID)
	if err != nil {
		c.log.Warnw("history row load for event failed", "id", historyID, "error", err)
		return
	}
	if row == nil {
		return
	}
	view := c.recordView(row, false)
	c.Publish(models.Event{Type: models.EventNewRecord, Record: &view}, targetDeviceID)
}
