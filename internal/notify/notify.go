// Package notify collects the short messages a session reports to the
// player: narrative updates, failures, and persistent banners.
package notify

import (
	"sync"
	"time"
)

// Sink receives notifications. Calls return the id of the stored alert, or
// -1 when nothing was stored.
type Sink interface {
	// Notify adds or replaces (when id > 0) an informational alert.
	Notify(msg string, id int, persistent bool) int
	// Error adds or replaces (when id > 0) an error alert.
	Error(msg string, id int) int
}

// Alert is one stored notification.
type Alert struct {
	ID         int
	Msg        string
	Time       time.Time
	Persistent bool
	Error      bool
}

// Center is an in-memory Sink. The zero value is not usable; use NewCenter.
type Center struct {
	mu       sync.Mutex
	active   bool
	alerts   []Alert
	nextID   int
	now      func() time.Time
	onChange func([]Alert)
}

// NewCenter returns an enabled, empty Center.
func NewCenter() *Center {
	return &Center{active: true, nextID: 1000, now: time.Now}
}

// OnChange registers fn to receive a snapshot after every change.
func (c *Center) OnChange(fn func([]Alert)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Active reports whether alerts are stored.
func (c *Center) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Toggle flips whether alerts are stored and returns the new setting.
func (c *Center) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = !c.active
	return c.active
}

// Notify implements Sink.
func (c *Center) Notify(msg string, id int, persistent bool) int {
	return c.put(Alert{ID: id, Msg: msg, Persistent: persistent})
}

// Error implements Sink. Empty messages are dropped.
func (c *Center) Error(msg string, id int) int {
	if msg == "" {
		return -1
	}
	return c.put(Alert{ID: id, Msg: msg, Error: true})
}

// Add appends a new alert with a fresh id.
func (c *Center) Add(msg string, persistent bool) int {
	return c.put(Alert{Msg: msg, Persistent: persistent})
}

// Remove deletes the alert with id.
func (c *Center) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	for i, a := range c.alerts {
		if a.ID == id {
			c.alerts = append(c.alerts[:i], c.alerts[i+1:]...)
			c.changed()
			return
		}
	}
}

// Reset clears all alerts, optionally leaving msg as the only one, and
// returns its id (or -1).
func (c *Center) Reset(msg string, persistent bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return -1
	}
	c.alerts = nil
	id := -1
	if msg != "" {
		id = c.newID()
		c.alerts = append(c.alerts, Alert{ID: id, Msg: msg, Persistent: persistent, Time: c.now()})
	}
	c.changed()
	return id
}

// All returns a copy of the stored alerts, oldest first.
func (c *Center) All() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Alert(nil), c.alerts...)
}

// Last returns the newest alert.
func (c *Center) Last() (Alert, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.alerts) == 0 {
		return Alert{}, false
	}
	return c.alerts[len(c.alerts)-1], true
}

func (c *Center) put(a Alert) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return -1
	}
	a.Time = c.now()
	if a.ID <= 0 {
		a.ID = c.newID()
		c.alerts = append(c.alerts, a)
		c.changed()
		return a.ID
	}
	for i := range c.alerts {
		if c.alerts[i].ID == a.ID {
			c.alerts[i] = a
			c.changed()
			return a.ID
		}
	}
	c.alerts = append(c.alerts, a)
	c.changed()
	return a.ID
}

func (c *Center) newID() int {
	c.nextID++
	return c.nextID
}

func (c *Center) changed() {
	if c.onChange != nil {
		c.onChange(append([]Alert(nil), c.alerts...))
	}
}

// Discard is a Sink that stores nothing.
type Discard struct{}

// Notify implements Sink.
func (Discard) Notify(string, int, bool) int { return -1 }

// Error implements Sink.
func (Discard) Error(string, int) int { return -1 }
