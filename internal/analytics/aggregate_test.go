package analytics

import (
	"encoding/json"
	"fmt"
	"testing"

	"bridgeanchor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ingest appends every body to a fresh store.
func ingest(t *testing.T, bodies ...string) *Store {
	t.Helper()
	store := NewStore()
	for _, body := range bodies {
		_, err := store.Append(fieldsOf(t, body))
		require.NoError(t, err)
	}
	return store
}

func TestAggregate_CompletedSession(t *testing.T) {
	store := ingest(t,
		`{"eventType":"session_start","sessionId":"s1","timestamp":1000}`,
		`{"eventType":"message_sent","sessionId":"s1","topics":["routines"]}`,
		`{"eventType":"session_end","sessionId":"s1","timestamp":5000,"totalMessages":3,"uniqueTopics":["routines","mood"]}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	require.Len(t, dashboard.Sessions, 1)
	session := dashboard.Sessions[0]
	assert.Equal(t, "s1", session.SessionID)
	assert.True(t, session.HasEnded)
	assert.Equal(t, 3, session.MessageCount)
	assert.Equal(t, []string{"routines", "mood"}, session.Topics)
	require.NotNil(t, session.StartTime)
	require.NotNil(t, session.EndTime)
	assert.Equal(t, 1000.0, *session.StartTime)
	assert.Equal(t, 5000.0, *session.EndTime)

	assert.Equal(t, map[string]int{
		EventSessionStart: 1,
		EventMessageSent:  1,
		EventSessionEnd:   1,
	}, dashboard.EventCounts)
	assert.Equal(t, map[string]int{"routines": 1}, dashboard.Topics)

	summary := dashboard.Summary
	assert.Equal(t, 1, summary.TotalSessions)
	assert.Equal(t, 1, summary.CompletedSessions)
	assert.Equal(t, 3, summary.TotalMessages)
	assert.Equal(t, int64(4), summary.AverageSessionDuration)
	assert.InDelta(t, 3.0, float64(summary.AverageMessagesPerSession), 1e-9)

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"averageMessagesPerSession":3.0`)
}

func TestAggregate_MessageCountOverrideThenResume(t *testing.T) {
	store := ingest(t,
		`{"eventType":"message_sent","sessionId":"s1"}`,
		`{"eventType":"message_sent","sessionId":"s1"}`,
		`{"eventType":"session_end","sessionId":"s1","totalMessages":10}`,
		`{"eventType":"message_sent","sessionId":"s1","topics":["late"]}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	require.Len(t, dashboard.Sessions, 1)
	assert.Equal(t, 11, dashboard.Sessions[0].MessageCount)
	assert.Equal(t, []string{"late"}, dashboard.Sessions[0].Topics)
}

func TestAggregate_ZeroTotalMessagesKeepsCount(t *testing.T) {
	store := ingest(t,
		`{"eventType":"message_sent","sessionId":"s1","topics":["mood"]}`,
		`{"eventType":"message_sent","sessionId":"s1"}`,
		`{"eventType":"session_end","sessionId":"s1","totalMessages":0,"uniqueTopics":[]}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	require.Len(t, dashboard.Sessions, 1)
	session := dashboard.Sessions[0]
	assert.True(t, session.HasEnded)
	assert.Equal(t, 2, session.MessageCount)
	assert.Empty(t, session.Topics)
	assert.Equal(t, 2, dashboard.Summary.TotalMessages)
}

func TestAggregate_MessageTopicsAccumulateWithDuplicates(t *testing.T) {
	store := ingest(t,
		`{"eventType":"message_sent","sessionId":"s1","topics":["mood","sleep"]}`,
		`{"eventType":"message_sent","sessionId":"s1","topics":["mood"]}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"mood", "sleep", "mood"}, dashboard.Sessions[0].Topics)
	assert.Equal(t, 2, dashboard.Sessions[0].MessageCount)
	assert.False(t, dashboard.Sessions[0].HasEnded)
	assert.Equal(t, map[string]int{"mood": 2, "sleep": 1}, dashboard.Topics)
}

func TestAggregate_NoCompletedSessions(t *testing.T) {
	store := ingest(t,
		`{"eventType":"session_start","sessionId":"s1","timestamp":1000}`,
		`{"eventType":"message_sent","sessionId":"s1"}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, dashboard.Summary.TotalSessions)
	assert.Equal(t, 0, dashboard.Summary.CompletedSessions)
	assert.Equal(t, 1, dashboard.Summary.TotalMessages)
	assert.Zero(t, float64(dashboard.Summary.AverageMessagesPerSession))
	assert.Zero(t, dashboard.Summary.AverageSessionDuration)
}

func TestAggregate_EmptyStore(t *testing.T) {
	dashboard, err := NewStore().Dashboard(DefaultOptions())
	require.NoError(t, err)

	data, err := json.Marshal(dashboard)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["sessions"])
	assert.Equal(t, []any{}, decoded["feedback"])
	assert.Equal(t, []any{}, decoded["recentEvents"])
	assert.Equal(t, map[string]any{}, decoded["eventCounts"])

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, []any{}, summary["topTopics"])
	assert.Equal(t, 0.0, summary["averageMessagesPerSession"])
}

func TestAggregate_AveragesOverCompletedSessionsOnly(t *testing.T) {
	store := ingest(t,
		`{"eventType":"session_start","sessionId":"a","timestamp":0}`,
		`{"eventType":"session_end","sessionId":"a","timestamp":10000,"totalMessages":2}`,
		`{"eventType":"session_start","sessionId":"b","timestamp":0}`,
		`{"eventType":"session_end","sessionId":"b","timestamp":3000,"totalMessages":3}`,
		`{"eventType":"session_start","sessionId":"c","timestamp":0}`,
		`{"eventType":"message_sent","sessionId":"c"}`,
		`{"eventType":"message_sent","sessionId":"c"}`,
		`{"eventType":"message_sent","sessionId":"c"}`,
		`{"eventType":"message_sent","sessionId":"c"}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	summary := dashboard.Summary
	assert.Equal(t, 3, summary.TotalSessions)
	assert.Equal(t, 2, summary.CompletedSessions)
	assert.Equal(t, 9, summary.TotalMessages)
	assert.InDelta(t, 2.5, float64(summary.AverageMessagesPerSession), 1e-9)
	// (10000 + 3000) / 2 = 6500 ms -> 7 s
	assert.Equal(t, int64(7), summary.AverageSessionDuration)
}

func TestAggregate_AverageMessagesRoundsToOneDecimal(t *testing.T) {
	store := ingest(t,
		`{"eventType":"session_end","sessionId":"a","totalMessages":1}`,
		`{"eventType":"session_end","sessionId":"b","totalMessages":1}`,
		`{"eventType":"session_end","sessionId":"c","totalMessages":2}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	// 4 / 3 = 1.333...
	assert.InDelta(t, 1.3, float64(dashboard.Summary.AverageMessagesPerSession), 1e-9)
}

func TestAggregate_DurationSkipsSessionsWithoutStart(t *testing.T) {
	store := ingest(t,
		`{"eventType":"session_end","sessionId":"nostart","timestamp":90000}`,
		`{"eventType":"session_start","sessionId":"ok","timestamp":1000}`,
		`{"eventType":"session_end","sessionId":"ok","timestamp":3000}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.Summary.CompletedSessions)
	assert.Equal(t, int64(2), dashboard.Summary.AverageSessionDuration)
}

func TestAggregate_DurationZeroWhenNoSessionHasBothBounds(t *testing.T) {
	store := ingest(t,
		`{"eventType":"session_end","sessionId":"s1","timestamp":90000}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, dashboard.Summary.CompletedSessions)
	assert.Zero(t, dashboard.Summary.AverageSessionDuration)
}

func TestAggregate_EventCountsMatchIngestedTypes(t *testing.T) {
	types := []string{"session_start", "message_sent", "message_sent", "page_view", "feedback_submitted", "page_view", "page_view"}
	bodies := make([]string, 0, len(types))
	expected := make(map[string]int)
	for i, eventType := range types {
		bodies = append(bodies, fmt.Sprintf(`{"eventType":%q,"sessionId":"s%d"}`, eventType, i%2))
		expected[eventType]++
	}

	dashboard, err := ingest(t, bodies...).Dashboard(DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, expected, dashboard.EventCounts)
}

func TestAggregate_UnknownSessionBucket(t *testing.T) {
	store := ingest(t,
		`{"eventType":"message_sent"}`,
		`{"eventType":"message_sent","sessionId":null}`,
		`{"eventType":"message_sent","sessionId":"s1"}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	require.Len(t, dashboard.Sessions, 2)
	assert.Equal(t, UnknownKey, dashboard.Sessions[0].SessionID)
	assert.Equal(t, 2, dashboard.Sessions[0].MessageCount)
	assert.Equal(t, "s1", dashboard.Sessions[1].SessionID)
}

func TestAggregate_Feedback(t *testing.T) {
	store := ingest(t,
		`{"eventType":"feedback_submitted","sessionId":"s1","timestamp":7000,"realism":5,"useAgain":true,"feedback":"felt real","messageCount":4,"sessionDuration":120,"extra":"dropped"}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, dashboard.Summary.FeedbackCount)
	require.Len(t, dashboard.Feedback, 1)

	data, err := json.Marshal(dashboard.Feedback[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":7000,"realism":5,"useAgain":true,"feedback":"felt real","messageCount":4,"sessionDuration":120}`, string(data))

	// Feedback does not touch the session rollup beyond creating it.
	require.Len(t, dashboard.Sessions, 1)
	assert.Equal(t, 0, dashboard.Sessions[0].MessageCount)
	assert.False(t, dashboard.Sessions[0].HasEnded)
}

func TestAggregate_TopTopics(t *testing.T) {
	store := ingest(t,
		`{"eventType":"message_sent","sessionId":"s1","topics":["a","b","c","d","e","f","g"]}`,
		`{"eventType":"message_sent","sessionId":"s1","topics":["g","g","f","f","e"]}`,
		`{"eventType":"page_view","sessionId":"s1","topics":["g"]}`,
	)

	dashboard, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	top := dashboard.Summary.TopTopics
	require.Len(t, top, DefaultTopTopics)
	assert.Equal(t, "g", top[0].Topic)
	assert.Equal(t, 4, top[0].Count)
	assert.Equal(t, "f", top[1].Topic)
	assert.Equal(t, 3, top[1].Count)
	assert.Equal(t, "e", top[2].Topic)
	assert.Equal(t, 2, top[2].Count)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Count, top[i].Count)
	}

	// Topics on any event type count globally.
	assert.Equal(t, 4, dashboard.Topics["g"])
}

func TestAggregate_TopTopicsCustomLimit(t *testing.T) {
	store := ingest(t,
		`{"eventType":"message_sent","sessionId":"s1","topics":["a","b","b","c","c","c"]}`,
	)

	dashboard, err := store.Dashboard(Options{TopTopics: 2})
	require.NoError(t, err)

	require.Len(t, dashboard.Summary.TopTopics, 2)
	assert.Equal(t, "c", dashboard.Summary.TopTopics[0].Topic)
	assert.Equal(t, "b", dashboard.Summary.TopTopics[1].Topic)
}

func TestAggregate_RecentEvents(t *testing.T) {
	bodies := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		bodies = append(bodies, fmt.Sprintf(`{"eventType":"message_sent","sessionId":"s1","seq":%d}`, i))
	}

	dashboard, err := ingest(t, bodies...).Dashboard(DefaultOptions())
	require.NoError(t, err)

	require.Len(t, dashboard.RecentEvents, DefaultRecentEvents)
	for i, event := range dashboard.RecentEvents {
		assert.JSONEq(t, fmt.Sprintf("%d", i+10), string(event.Fields["seq"]))
	}
}

func TestAggregate_RecentEventsFewerThanLimit(t *testing.T) {
	dashboard, err := ingest(t,
		`{"eventType":"a"}`,
		`{"eventType":"b"}`,
	).Dashboard(DefaultOptions())
	require.NoError(t, err)

	require.Len(t, dashboard.RecentEvents, 2)
	assert.JSONEq(t, `"a"`, string(dashboard.RecentEvents[0].Fields["eventType"]))
	assert.NotZero(t, dashboard.RecentEvents[0].ReceivedAt)
}

func TestAggregate_Idempotent(t *testing.T) {
	store := ingest(t,
		`{"eventType":"session_start","sessionId":"s1","timestamp":1000}`,
		`{"eventType":"message_sent","sessionId":"s1","topics":["a","b"]}`,
		`{"eventType":"message_sent","sessionId":"s2","topics":["b"]}`,
		`{"eventType":"session_end","sessionId":"s1","timestamp":4000}`,
	)

	first, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)
	second, err := store.Dashboard(DefaultOptions())
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestGuard_PanicBecomesError(t *testing.T) {
	var rollups map[string]*models.SessionRollup

	dashboard, err := guard(func() *models.DashboardResponse {
		rollups["s1"].MessageCount++
		return &models.DashboardResponse{}
	})

	assert.Nil(t, dashboard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregation failed")
}

func TestGuard_PassesResultThrough(t *testing.T) {
	want := &models.DashboardResponse{Sessions: []models.SessionRollup{}}

	dashboard, err := guard(func() *models.DashboardResponse { return want })

	require.NoError(t, err)
	assert.Same(t, want, dashboard)
}

func BenchmarkAggregate(b *testing.B) {
	store := NewStore()
	for i := 0; i < 10000; i++ {
		body := fmt.Sprintf(`{"eventType":"message_sent","sessionId":"s%d","topics":["t%d"]}`, i%100, i%17)
		if _, err := store.Append(fieldsOf(b, body)); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Dashboard(DefaultOptions()); err != nil {
			b.Fatal(err)
		}
	}
}
