package analytics

import (
	"bytes"
	"encoding/json"
	"math"
)

// Event types that get special handling during aggregation. Any other
// value is stored and counted but not otherwise interpreted.
const (
	EventSessionStart      = "session_start"
	EventSessionEnd        = "session_end"
	EventMessageSent       = "message_sent"
	EventFeedbackSubmitted = "feedback_submitted"
)

// UnknownKey buckets events that carry no sessionId or no eventType.
const UnknownKey = "unknown"

// Event is the typed view of a stored analytics record.
type Event struct {
	Type      string
	SessionID string
	Timestamp *float64
	// Topics is nil when the event carries no topics list.
	Topics  []string
	Payload Payload
}

// Payload is the type-specific part of an event.
type Payload interface {
	isPayload()
}

// SessionStart marks the beginning of a session.
type SessionStart struct{}

// SessionEnd closes a session. A non-nil field overrides the running rollup value.
// TotalMessages is nil when the event carries no total or a total of 0, and a
// fractional total is truncated toward zero.
type SessionEnd struct {
	TotalMessages *int
	UniqueTopics  []string
}

// MessageSent is one user message within a session.
type MessageSent struct{}

// FeedbackSubmitted carries the end-of-session survey. Values are opaque.
type FeedbackSubmitted struct {
	Timestamp       json.RawMessage
	Realism         json.RawMessage
	UseAgain        json.RawMessage
	Feedback        json.RawMessage
	MessageCount    json.RawMessage
	SessionDuration json.RawMessage
}

// Unrecognized is any event type without special handling.
type Unrecognized struct {
	Fields map[string]json.RawMessage
}

func (SessionStart) isPayload()      {}
func (SessionEnd) isPayload()        {}
func (MessageSent) isPayload()       {}
func (FeedbackSubmitted) isPayload() {}
func (Unrecognized) isPayload()      {}

// Decode builds the typed view of a client payload. It never fails: fields
// with an unexpected JSON type are treated as absent.
func Decode(fields map[string]json.RawMessage) Event {
	event := Event{
		Type:      UnknownKey,
		SessionID: UnknownKey,
		Timestamp: numberField(fields, "timestamp"),
	}
	if eventType, ok := scalarField(fields, "eventType"); ok {
		event.Type = eventType
	}
	if sessionID, ok := scalarField(fields, "sessionId"); ok {
		event.SessionID = sessionID
	}
	if topics, ok := stringsField(fields, "topics"); ok {
		event.Topics = topics
	}

	switch event.Type {
	case EventSessionStart:
		event.Payload = SessionStart{}
	case EventSessionEnd:
		end := SessionEnd{}
		// A zero total leaves the counted messages in place.
		if total := numberField(fields, "totalMessages"); total != nil && *total != 0 {
			count := int(math.Trunc(*total))
			end.TotalMessages = &count
		}
		if topics, ok := stringsField(fields, "uniqueTopics"); ok {
			end.UniqueTopics = topics
		}
		event.Payload = end
	case EventMessageSent:
		event.Payload = MessageSent{}
	case EventFeedbackSubmitted:
		event.Payload = FeedbackSubmitted{
			Timestamp:       rawField(fields, "timestamp"),
			Realism:         rawField(fields, "realism"),
			UseAgain:        rawField(fields, "useAgain"),
			Feedback:        rawField(fields, "feedback"),
			MessageCount:    rawField(fields, "messageCount"),
			SessionDuration: rawField(fields, "sessionDuration"),
		}
	default:
		event.Payload = Unrecognized{Fields: fields}
	}

	return event
}

// rawField returns the raw value of key, or nil when absent or null.
func rawField(fields map[string]json.RawMessage, key string) json.RawMessage {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	return raw
}

// scalarField returns a JSON string as-is and any other non-null value as its JSON text.
func scalarField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw := rawField(fields, key)
	if raw == nil {
		return "", false
	}
	return scalarText(raw), true
}

func numberField(fields map[string]json.RawMessage, key string) *float64 {
	raw := rawField(fields, key)
	if raw == nil {
		return nil
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return &value
}

// stringsField decodes a JSON array into strings. Non-string elements keep their JSON text.
func stringsField(fields map[string]json.RawMessage, key string) ([]string, bool) {
	raw := rawField(fields, key)
	if raw == nil {
		return nil, false
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}
	values := make([]string, 0, len(elements))
	for _, element := range elements {
		values = append(values, scalarText(element))
	}
	return values, true
}

func scalarText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(bytes.TrimSpace(raw))
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
