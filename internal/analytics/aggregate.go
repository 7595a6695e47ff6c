package analytics

import (
	"fmt"
	"math"
	"sort"

	"bridgeanchor/internal/models"
)

// Default dashboard limits
const (
	DefaultRecentEvents = 50
	DefaultTopTopics    = 5
)

// Options bounds the list sections of the dashboard.
type Options struct {
	RecentEvents int // Trailing records returned in recentEvents
	TopTopics    int // Entries in summary.topTopics
}

// DefaultOptions returns the standard dashboard limits
func DefaultOptions() Options {
	return Options{
		RecentEvents: DefaultRecentEvents,
		TopTopics:    DefaultTopTopics,
	}
}

// aggregator holds the state of one forward pass over the store.
type aggregator struct {
	sessions     map[string]*models.SessionRollup
	sessionOrder []string
	eventCounts  map[string]int
	topicCounts  map[string]int
	topicOrder   []string
	feedback     []models.FeedbackRecord
}

func newAggregator() *aggregator {
	return &aggregator{
		sessions:    make(map[string]*models.SessionRollup),
		eventCounts: make(map[string]int),
		topicCounts: make(map[string]int),
		feedback:    []models.FeedbackRecord{},
	}
}

// Aggregate folds records, in order, into the dashboard payload. Either the
// complete payload or an error is returned, never a partial result.
func Aggregate(records []Record, opts Options) (*models.DashboardResponse, error) {
	if opts.RecentEvents <= 0 {
		opts.RecentEvents = DefaultRecentEvents
	}
	if opts.TopTopics <= 0 {
		opts.TopTopics = DefaultTopTopics
	}

	return guard(func() *models.DashboardResponse {
		return aggregate(records, opts)
	})
}

// guard runs pass and turns a panic inside it into an error.
func guard(pass func() *models.DashboardResponse) (resp *models.DashboardResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("aggregation failed: %v", r)
		}
	}()

	return pass(), nil
}

func aggregate(records []Record, opts Options) *models.DashboardResponse {
	agg := newAggregator()
	for _, record := range records {
		agg.add(record.Event)
	}

	sessions := make([]models.SessionRollup, 0, len(agg.sessionOrder))
	for _, id := range agg.sessionOrder {
		sessions = append(sessions, *agg.sessions[id])
	}

	return &models.DashboardResponse{
		Summary:      agg.summary(sessions, opts.TopTopics),
		Sessions:     sessions,
		EventCounts:  agg.eventCounts,
		Topics:       agg.topicCounts,
		Feedback:     agg.feedback,
		RecentEvents: recentEvents(records, opts.RecentEvents),
	}
}

// session returns the rollup for id, creating it on first sight.
func (a *aggregator) session(id string) *models.SessionRollup {
	rollup, ok := a.sessions[id]
	if !ok {
		rollup = &models.SessionRollup{
			SessionID: id,
			Topics:    []string{},
		}
		a.sessions[id] = rollup
		a.sessionOrder = append(a.sessionOrder, id)
	}
	return rollup
}

func (a *aggregator) add(event Event) {
	rollup := a.session(event.SessionID)

	switch payload := event.Payload.(type) {
	case SessionStart:
		rollup.StartTime = event.Timestamp
	case SessionEnd:
		rollup.EndTime = event.Timestamp
		rollup.HasEnded = true
		// Overrides, not merges: the client's final tally wins.
		if payload.TotalMessages != nil {
			rollup.MessageCount = *payload.TotalMessages
		}
		if payload.UniqueTopics != nil {
			rollup.Topics = append([]string{}, payload.UniqueTopics...)
		}
	case MessageSent:
		rollup.MessageCount++
		rollup.Topics = append(rollup.Topics, event.Topics...)
	case FeedbackSubmitted:
		a.feedback = append(a.feedback, models.FeedbackRecord{
			Timestamp:       payload.Timestamp,
			Realism:         payload.Realism,
			UseAgain:        payload.UseAgain,
			Feedback:        payload.Feedback,
			MessageCount:    payload.MessageCount,
			SessionDuration: payload.SessionDuration,
		})
	}

	a.eventCounts[event.Type]++

	// Only the topics list feeds the global tally; uniqueTopics does not.
	for _, topic := range event.Topics {
		if _, seen := a.topicCounts[topic]; !seen {
			a.topicOrder = append(a.topicOrder, topic)
		}
		a.topicCounts[topic]++
	}
}

func (a *aggregator) summary(sessions []models.SessionRollup, topN int) models.DashboardSummary {
	summary := models.DashboardSummary{
		TotalSessions: len(sessions),
		FeedbackCount: len(a.feedback),
		TopTopics:     a.topTopics(topN),
	}

	var completedMessages int
	var durationTotal float64
	var timed int
	for _, session := range sessions {
		summary.TotalMessages += session.MessageCount
		if !session.HasEnded {
			continue
		}
		summary.CompletedSessions++
		completedMessages += session.MessageCount

		// Sessions missing either bound have no measurable duration.
		if session.StartTime != nil && session.EndTime != nil {
			durationTotal += *session.EndTime - *session.StartTime
			timed++
		}
	}

	if summary.CompletedSessions > 0 {
		average := float64(completedMessages) / float64(summary.CompletedSessions)
		summary.AverageMessagesPerSession = models.Decimal1(math.Round(average*10) / 10)
	}
	if timed > 0 {
		summary.AverageSessionDuration = int64(math.Round(durationTotal / float64(timed) / 1000))
	}

	return summary
}

// topTopics returns the n most counted topics. Ties keep first-seen order.
func (a *aggregator) topTopics(n int) []models.TopicCount {
	ranked := make([]models.TopicCount, 0, len(a.topicOrder))
	for _, topic := range a.topicOrder {
		ranked = append(ranked, models.TopicCount{Topic: topic, Count: a.topicCounts[topic]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// recentEvents returns the last n raw records, oldest first.
func recentEvents(records []Record, n int) []models.AnalyticsEvent {
	start := len(records) - n
	if start < 0 {
		start = 0
	}

	events := make([]models.AnalyticsEvent, 0, len(records)-start)
	for _, record := range records[start:] {
		events = append(events, record.Raw)
	}
	return events
}
