package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"montapulse/internal/application"
	"montapulse/internal/domain/model"
	"montapulse/internal/domain/repository"
	"montapulse/internal/infrastructure/auth"
	"montapulse/internal/localstore"
)

type stubEventsRepository struct {
	events []model.Event
}

func (r *stubEventsRepository) Create(_ context.Context, event *model.Event) (string, error) {
	e := *event
	e.ID = "ev-1"
	r.events = append(r.events, e)
	return e.ID, nil
}

func (r *stubEventsRepository) Update(_ context.Context, id string, event *model.Event) error {
	for i := range r.events {
		if r.events[i].ID == id {
			e := *event
			e.ID = id
			r.events[i] = e
		}
	}
	return nil
}

func (r *stubEventsRepository) Delete(_ context.Context, id string) error { return nil }

func (r *stubEventsRepository) GetAll(_ context.Context) ([]model.Event, error) {
	return r.events, nil
}

func (r *stubEventsRepository) Subscribe(_ context.Context, callback func([]model.Event)) repository.UnsubscribeFunc {
	callback(r.events)
	return func() {}
}

type stubBusinessesRepository struct{}

func (r *stubBusinessesRepository) Create(_ context.Context, _ *model.Business) (string, error) {
	return "biz-1", nil
}
func (r *stubBusinessesRepository) Update(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}
func (r *stubBusinessesRepository) Delete(_ context.Context, _ string) error { return nil }
func (r *stubBusinessesRepository) GetAll(_ context.Context) ([]model.Business, error) {
	return nil, nil
}
func (r *stubBusinessesRepository) Subscribe(_ context.Context, callback func([]model.Business)) repository.UnsubscribeFunc {
	callback(nil)
	return func() {}
}

type stubUsersRepository struct{}

func (r *stubUsersRepository) CreateOrMerge(_ context.Context, _ string, _ *model.UserProfile) error {
	return nil
}
func (r *stubUsersRepository) Update(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}
func (r *stubUsersRepository) Get(_ context.Context, _ string) (*model.UserProfile, error) {
	return nil, nil
}

type stubRecommendations struct{}

func (s *stubRecommendations) SmartRecommendations(_ context.Context, _ []model.Event, _ string) (string, []repository.Citation, error) {
	return "Catch the sunset jam!", []repository.Citation{{URI: "https://example.com", Title: "Surf report"}}, nil
}

func (s *stubRecommendations) EventDescription(_ context.Context, _ string, _ model.Sector) (string, error) {
	return "Twenty words of pure beach energy.", nil
}

func newTestRouter(t *testing.T, events *stubEventsRepository) (*gin.Engine, *application.Dashboard) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := localstore.OpenInMemory(zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	d := application.NewDashboard(events, &stubBusinessesRepository{}, &stubUsersRepository{}, store, zap.NewNop().Sugar())
	d.Start(context.Background())
	t.Cleanup(d.Close)

	return NewRouter(d, &stubRecommendations{}, auth.NewClient("test-key")), d
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signInAsMaster(t *testing.T, d *application.Dashboard) {
	t.Helper()
	_, err := d.SyncProfile(context.Background(), &auth.AuthUser{
		UID:   "master",
		Email: auth.SuperAdminEmail,
	}, "")
	require.NoError(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &stubEventsRepository{})
	w := doJSON(r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRejectVisitors(t *testing.T) {
	r, _ := newTestRouter(t, &stubEventsRepository{})

	w := doJSON(r, http.MethodPost, "/api/sectors/Playa/edit", `{}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/businesses/b1", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSectorEditFlowOverHTTP(t *testing.T) {
	r, d := newTestRouter(t, &stubEventsRepository{})
	signInAsMaster(t, d)

	w := doJSON(r, http.MethodPost, "/api/sectors/Playa/edit", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Two points are not enough to commit.
	for _, body := range []string{
		`{"lat":-1.824,"lng":-80.756}`,
		`{"lat":-1.825,"lng":-80.757}`,
	} {
		w = doJSON(r, http.MethodPost, "/api/sectors/Playa/points", body)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = doJSON(r, http.MethodPost, "/api/sectors/Playa/confirm", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(r, http.MethodPost, "/api/sectors/Playa/points", `{"lat":-1.826,"lng":-80.755}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/api/sectors/Playa/confirm", "")
	assert.Equal(t, http.StatusOK, w.Code)

	polys := d.SectorPolygons()
	assert.Len(t, polys[model.SectorPlaya], 3)
}

func TestEditorOperationsConflictWhenIdle(t *testing.T) {
	r, d := newTestRouter(t, &stubEventsRepository{})
	signInAsMaster(t, d)

	w := doJSON(r, http.MethodPost, "/api/sectors/Playa/undo", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetEventsHonorsQueryFilters(t *testing.T) {
	now := time.Now()
	events := &stubEventsRepository{events: []model.Event{
		{ID: "e1", Title: "Surf Jam", Sector: model.SectorPlaya, Vibe: model.VibeAdrenalina, EndAt: now.Add(time.Hour)},
		{ID: "e2", Title: "Techno Tide", Sector: model.SectorCentro, Vibe: model.VibeTechno, EndAt: now.Add(time.Hour)},
	}}
	r, _ := newTestRouter(t, events)

	w := doJSON(r, http.MethodGet, "/api/events?filter=Techno", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Events []model.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "Techno Tide", resp.Events[0].Title)
}

func TestGetEventsIsIdempotentAndLeavesStateAlone(t *testing.T) {
	now := time.Now()
	events := &stubEventsRepository{events: []model.Event{
		{ID: "e1", Title: "Surf Jam", Sector: model.SectorPlaya, EndAt: now.Add(time.Hour)},
		{ID: "e2", Title: "Techno Tide", Sector: model.SectorCentro, EndAt: now.Add(time.Hour)},
	}}
	r, d := newTestRouter(t, events)

	var resp struct {
		Events []model.Event `json:"events"`
	}
	// The same filtered read twice returns the same answer.
	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodGet, "/api/events?sector=Playa", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Events, 1)
		assert.Equal(t, "Surf Jam", resp.Events[0].Title)
	}

	// The shared controller state never picked up the query's filters.
	assert.Len(t, d.FilteredEvents(), 2)
}

func TestZeroLatitudeCoordinateBinds(t *testing.T) {
	r, d := newTestRouter(t, &stubEventsRepository{})
	signInAsMaster(t, d)

	w := doJSON(r, http.MethodPost, "/api/sectors/Playa/edit", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	// The equator is a valid latitude; zero must not read as missing.
	w = doJSON(r, http.MethodPost, "/api/sectors/Playa/points", `{"lat":0,"lng":-80.75}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/sectors/Playa/points", `{"lng":-80.75}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	doJSON(r, http.MethodDelete, "/api/sectors/Playa/edit", "")
}

func TestCreateEventValidatesSector(t *testing.T) {
	r, _ := newTestRouter(t, &stubEventsRepository{})

	body := `{"businessId":"b1","title":"Bonfire","startAt":"2026-08-30T18:00:00Z","endAt":"2026-08-30T23:00:00Z","sector":"Atlantis"}`
	w := doJSON(r, http.MethodPost, "/api/events", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = `{"businessId":"b1","title":"Bonfire","startAt":"2026-08-30T18:00:00Z","endAt":"2026-08-30T23:00:00Z","sector":"Playa"}`
	w = doJSON(r, http.MethodPost, "/api/events", body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBasemapToggleRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t, &stubEventsRepository{})

	w := doJSON(r, http.MethodPost, "/api/map/basemap", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dark", resp["basemap"])

	w = doJSON(r, http.MethodPost, "/api/map/basemap", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "satellite", resp["basemap"])
}

func TestMapLayersIncludeLandmarks(t *testing.T) {
	r, _ := newTestRouter(t, &stubEventsRepository{})

	w := doJSON(r, http.MethodGet, "/api/map/layers", "")
	require.Equal(t, http.StatusOK, w.Code)

	var snap struct {
		Markers []struct {
			BusinessID string `json:"businessId"`
		} `json:"markers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Markers, len(model.ReferenceLandmarks()))
}

func TestRecommendationsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &stubEventsRepository{})

	w := doJSON(r, http.MethodPost, "/api/ai/recommendations", `{"interest":"surf"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Text    string                `json:"text"`
		Sources []repository.Citation `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Catch the sunset jam!", resp.Text)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Surf report", resp.Sources[0].Title)
}
