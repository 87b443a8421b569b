// Package bridge emits lifecycle events to a supervising host process
// (the desktop shell that launches the server) as JSON lines on a
// configurable writer, normally stdout.
package bridge

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Event names understood by the host process.
const (
	EventServerStatus   = "server-status"
	EventSocketInfo     = "server-socket-info"
	EventDatabaseStatus = "database-status"
	EventLogs           = "logs"
	EventServerStop     = "server-stop"
	EventRequestLogs    = "requests-logs"
)

var knownEvents = map[string]bool{
	EventServerStatus:   true,
	EventSocketInfo:     true,
	EventDatabaseStatus: true,
	EventLogs:           true,
	EventServerStop:     true,
	EventRequestLogs:    true,
}

// Envelope is the wire shape of a single bridge event.
type Envelope struct {
	Name    string      `json:"name"`
	Message interface{} `json:"message"`
}

// Emitter serializes events to a writer. Safe for concurrent use.
// A disabled emitter drops all events, so callers never need to
// guard their Emit calls.
type Emitter struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
}

// New returns an emitter writing to w. If w is nil the emitter is
// disabled.
func New(w io.Writer, enabled bool) *Emitter {
	if w == nil {
		enabled = false
	}
	return &Emitter{w: w, enabled: enabled}
}

// Emit writes one event as a JSON line. Unknown event names are
// rejected so a typo cannot silently confuse the host process.
func (e *Emitter) Emit(name string, message interface{}) error {
	if !knownEvents[name] {
		return fmt.Errorf("bridge: unknown event %q", name)
	}
	if e == nil || !e.enabled {
		return nil
	}

	data, err := json.Marshal(Envelope{Name: name, Message: message})
	if err != nil {
		return fmt.Errorf("bridge: marshal %s: %w", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("bridge: write %s: %w", name, err)
	}
	return nil
}

// ServerStatus reports whether the HTTP listener is up.
func (e *Emitter) ServerStatus(running bool) error {
	return e.Emit(EventServerStatus, map[string]bool{"running": running})
}

// SocketInfo reports the bound address so the host can connect.
func (e *Emitter) SocketInfo(host string, port int) error {
	return e.Emit(EventSocketInfo, map[string]interface{}{"host": host, "port": port})
}

// DatabaseStatus reports store connectivity.
func (e *Emitter) DatabaseStatus(connected bool, detail string) error {
	return e.Emit(EventDatabaseStatus, map[string]interface{}{"connected": connected, "detail": detail})
}

// Log forwards a free-form log line to the host.
func (e *Emitter) Log(line string) error {
	return e.Emit(EventLogs, line)
}

// RequestLog forwards a summary of one handled HTTP request.
func (e *Emitter) RequestLog(method, path string, status int) error {
	return e.Emit(EventRequestLogs, map[string]interface{}{
		"method": method,
		"path":   path,
		"status": status,
	})
}

// ServerStop announces an orderly shutdown.
func (e *Emitter) ServerStop() error {
	return e.Emit(EventServerStop, "stopped")
}
