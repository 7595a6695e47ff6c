package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AnalyticsEvent is a stored analytics record: the client payload exactly as
// submitted, plus the server-assigned receipt time in milliseconds since epoch.
type AnalyticsEvent struct {
	Fields     map[string]json.RawMessage
	ReceivedAt int64
}

// MarshalJSON flattens the client fields and receivedAt into one object.
// A client-supplied receivedAt is always replaced by the server value.
func (e AnalyticsEvent) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.Fields)+1)
	for key, value := range e.Fields {
		out[key] = value
	}
	out["receivedAt"] = json.RawMessage(strconv.FormatInt(e.ReceivedAt, 10))
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler, splitting receivedAt back out of the fields.
func (e *AnalyticsEvent) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["receivedAt"]; ok {
		if err := json.Unmarshal(raw, &e.ReceivedAt); err != nil {
			return fmt.Errorf("invalid receivedAt: %w", err)
		}
		delete(fields, "receivedAt")
	}
	e.Fields = fields
	return nil
}

// SessionRollup is the per-session state derived on each dashboard request
type SessionRollup struct {
	SessionID    string   `json:"sessionId" example:"s1"`
	StartTime    *float64 `json:"startTime" example:"1700000000000"`
	EndTime      *float64 `json:"endTime" example:"1700000300000"`
	MessageCount int      `json:"messageCount" example:"3"`
	Topics       []string `json:"topics"`
	HasEnded     bool     `json:"hasEnded" example:"true"`
}

// FeedbackRecord is a snapshot of one feedback_submitted event.
// Field values are passed through verbatim; their types are not constrained.
type FeedbackRecord struct {
	Timestamp       json.RawMessage `json:"timestamp,omitempty" swaggertype:"number"`
	Realism         json.RawMessage `json:"realism,omitempty" swaggertype:"object"`
	UseAgain        json.RawMessage `json:"useAgain,omitempty" swaggertype:"object"`
	Feedback        json.RawMessage `json:"feedback,omitempty" swaggertype:"object"`
	MessageCount    json.RawMessage `json:"messageCount,omitempty" swaggertype:"object"`
	SessionDuration json.RawMessage `json:"sessionDuration,omitempty" swaggertype:"object"`
}

// TopicCount pairs a topic with the number of times it was mentioned
type TopicCount struct {
	Topic string `json:"topic" example:"routines"`
	Count int    `json:"count" example:"4"`
}

// Decimal1 is a number that is always encoded with exactly one fractional digit (3 -> 3.0).
type Decimal1 float64

// MarshalJSON implements json.Marshaler.
func (d Decimal1) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(d), 'f', 1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal1) UnmarshalJSON(data []byte) error {
	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", data, err)
	}
	*d = Decimal1(value)
	return nil
}

// DashboardSummary holds the headline statistics of the dashboard
type DashboardSummary struct {
	TotalSessions             int          `json:"totalSessions" example:"12"`                                   // Distinct sessions seen
	CompletedSessions         int          `json:"completedSessions" example:"9"`                                // Sessions with a session_end event
	TotalMessages             int          `json:"totalMessages" example:"57"`                                   // Messages across all sessions
	AverageMessagesPerSession Decimal1     `json:"averageMessagesPerSession" swaggertype:"number" example:"5.2"` // Over completed sessions
	AverageSessionDuration    int64        `json:"averageSessionDuration" example:"240"`                         // Seconds, over completed sessions
	FeedbackCount             int          `json:"feedbackCount" example:"3"`                                    // Number of feedback submissions
	TopTopics                 []TopicCount `json:"topTopics"`                                                    // Most mentioned topics, count descending
}

// DashboardResponse is the payload of the analytics dashboard endpoint
// @Description Analytics dashboard payload
type DashboardResponse struct {
	Summary      DashboardSummary `json:"summary"`
	Sessions     []SessionRollup  `json:"sessions"`
	EventCounts  map[string]int   `json:"eventCounts"`
	Topics       map[string]int   `json:"topics"`
	Feedback     []FeedbackRecord `json:"feedback"`
	RecentEvents []AnalyticsEvent `json:"recentEvents" swaggertype:"array,object"`
}

// AnalyticsAck acknowledges a recorded analytics event
// @Description Analytics ingestion acknowledgment
type AnalyticsAck struct {
	Success bool `json:"success" example:"true"`
}

// ErrorResponse is the generic error body returned by the analytics endpoints
// @Description Error response payload
type ErrorResponse struct {
	Error string `json:"error" example:"Failed to record analytics"`
}
