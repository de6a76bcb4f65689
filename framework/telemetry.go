package framework

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// EventType categorizes telemetry events.
type EventType string

const (
	EventEstimateStart  EventType = "estimate_start"
	EventEstimateFinish EventType = "estimate_finish"
	EventChainSkipped   EventType = "chain_skipped"
	EventChainEstimated EventType = "chain_estimated"
	EventBatchStart     EventType = "batch_start"
	EventBatchFinish    EventType = "batch_finish"
)

// Event captures structured telemetry data.
type Event struct {
	Type      EventType              `json:"type"`
	Scene     string                 `json:"scene,omitempty"`
	Chain     string                 `json:"chain,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Telemetry receives estimation traces.
type Telemetry interface {
	Emit(event Event)
}

// MultiplexTelemetry broadcasts events to multiple sinks.
type MultiplexTelemetry struct {
	Sinks []Telemetry
}

// Emit forwards the event to all registered sinks.
func (m MultiplexTelemetry) Emit(event Event) {
	for _, s := range m.Sinks {
		if s != nil {
			s.Emit(event)
		}
	}
}

// JSONFileTelemetry writes events as newline-delimited JSON to a file.
type JSONFileTelemetry struct {
	path string
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewJSONFileTelemetry opens (or creates) the log file in append mode.
func NewJSONFileTelemetry(path string) (*JSONFileTelemetry, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONFileTelemetry{
		path: path,
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// Emit writes the JSON record.
func (j *JSONFileTelemetry) Emit(event Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.enc != nil {
		_ = j.enc.Encode(event)
	}
}

// Close releases the file handle.
func (j *JSONFileTelemetry) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}

// LogTelemetry writes events through a structured logger at debug level,
// except skipped chains which are reported as warnings.
type LogTelemetry struct {
	Logger *log.Logger
}

// Emit logs the event.
func (t LogTelemetry) Emit(event Event) {
	logger := t.Logger
	if logger == nil {
		logger = log.Default()
	}
	keyvals := []interface{}{"event", string(event.Type)}
	if event.Scene != "" {
		keyvals = append(keyvals, "scene", event.Scene)
	}
	if event.Chain != "" {
		keyvals = append(keyvals, "chain", event.Chain)
	}
	for k, v := range event.Metadata {
		keyvals = append(keyvals, k, v)
	}
	msg := event.Message
	if msg == "" {
		msg = string(event.Type)
	}
	if event.Type == EventChainSkipped {
		logger.Warn(msg, keyvals...)
		return
	}
	logger.Debug(msg, keyvals...)
}
