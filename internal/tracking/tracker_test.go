package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository/repositorytest"
)

func TestTrackEventStoresPayload(t *testing.T) {
	store := repositorytest.New()
	tr := NewTracker(store)

	err := tr.TrackEvent(context.Background(), Event{
		Name: model.EventContactFormSubmit,
		Data: map[string]any{"subject": "Hi"},
	})
	require.NoError(t, err)

	require.Len(t, store.Events, 1)
	ev := store.Events[0]
	assert.Equal(t, model.EventContactFormSubmit, ev.Event)
	assert.Equal(t, model.UnknownIP, ev.IP)
	assert.Nil(t, ev.UserAgent)

	var data map[string]string
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "Hi", data["subject"])
}

func TestTrackEventRequiresName(t *testing.T) {
	store := repositorytest.New()
	assert.Error(t, NewTracker(store).TrackEvent(context.Background(), Event{}))
	assert.Empty(t, store.Events)
}

func TestTrackPageViewWritesBothRows(t *testing.T) {
	store := repositorytest.New()
	tr := NewTracker(store)

	require.NoError(t, tr.TrackPageView(context.Background(), "home", "10.0.0.1", "curl/8"))

	require.Len(t, store.Visitors, 1)
	assert.Equal(t, "home", store.Visitors[0].Page)
	assert.Equal(t, "10.0.0.1", store.Visitors[0].IP)
	require.NotNil(t, store.Visitors[0].UserAgent)
	assert.Equal(t, "curl/8", *store.Visitors[0].UserAgent)
	assert.Equal(t, []string{model.EventPageView}, store.EventNames())
}

func TestTrackPageViewPartialSuccess(t *testing.T) {
	store := repositorytest.New()
	store.FailOn("CreateAnalyticsEvent", errors.New("analytics table locked"))
	tr := NewTracker(store)

	err := tr.TrackPageView(context.Background(), "home", "", "")

	assert.ErrorContains(t, err, "analytics table locked")
	assert.Len(t, store.Visitors, 1, "visitor row is written even when the event fails")
	assert.Empty(t, store.Events)
}

func TestTrackProjectViewKeepsIDAsSent(t *testing.T) {
	store := repositorytest.New()
	tr := NewTracker(store)
	ctx := context.Background()

	ids := []string{" E-Speech ", "C++", "C#", "日本語", "!!!"}
	for _, id := range ids {
		require.NoError(t, tr.TrackProjectView(ctx, id, "", ""))
	}

	var stored []string
	for _, pv := range store.ProjectViews {
		stored = append(stored, pv.ProjectID)
	}
	assert.Equal(t, []string{"E-Speech", "C++", "C#", "日本語", "!!!"}, stored)

	s, err := tr.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Len(t, s.TopProjects, 5, "distinct ids are never merged")

	var data map[string]string
	require.NoError(t, json.Unmarshal(store.Events[1].Data, &data))
	assert.Equal(t, "C++", data["projectId"])
}

func TestTrackProjectViewRequiresID(t *testing.T) {
	store := repositorytest.New()

	err := NewTracker(store).TrackProjectView(context.Background(), "   ", "", "")

	assert.Error(t, err)
	assert.Empty(t, store.ProjectViews)
	assert.Empty(t, store.Events)
}

func TestGetAnalytics(t *testing.T) {
	store := repositorytest.New()
	tr := NewTracker(store)
	ctx := context.Background()

	for _, page := range []string{"home", "home", "about"} {
		require.NoError(t, tr.TrackPageView(ctx, page, "", ""))
	}
	require.NoError(t, tr.TrackProjectView(ctx, "first-house", "", ""))

	s, err := tr.GetAnalytics(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, s.TotalVisitors)
	assert.EqualValues(t, 3, s.PageViews)
	assert.EqualValues(t, 1, s.ProjectViews)
	assert.Len(t, s.RecentEvents, 4)
	assert.Equal(t, model.EventProjectView, s.RecentEvents[0].Event, "newest first")
	assert.Equal(t, []model.PageCount{{Page: "home", Count: 2}, {Page: "about", Count: 1}}, s.TopPages)
	assert.Equal(t, []model.ProjectCount{{ProjectID: "first-house", Count: 1}}, s.TopProjects)
}

func TestGetAnalyticsFailsWhenAnyAggregateFails(t *testing.T) {
	aggregates := []string{
		"CountVisitors", "CountEvents", "CountProjectViews",
		"RecentEvents", "TopPages", "TopProjects",
	}
	for _, method := range aggregates {
		t.Run(method, func(t *testing.T) {
			store := repositorytest.New()
			store.FailOn(method, errors.New("query failed"))

			s, err := NewTracker(store).GetAnalytics(context.Background())

			assert.Nil(t, s)
			assert.ErrorContains(t, err, "query failed")
		})
	}
}

func TestGetAnalyticsRecentEventsCapped(t *testing.T) {
	store := repositorytest.New()
	tr := NewTracker(store)
	for i := 0; i < 15; i++ {
		require.NoError(t, tr.TrackEvent(context.Background(), Event{Name: "button_click"}))
	}

	s, err := tr.GetAnalytics(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.RecentEvents, recentEventsLimit)
}
