package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/spatial"
)

// fakeService lets the handler tests exercise routing/marshaling without
// a real graph, the way MapMatchingHandler's tests would fake
// MapMatchingService.
type fakeService struct {
	routeResult   RouteResult
	routeErr      error
	nearestResult NearestResult
	nearestErr    error
	tileResult    TileResult
	tileErr       error
}

func (f *fakeService) Route(ctx context.Context, q RouteQuery) (RouteResult, error) {
	return f.routeResult, f.routeErr
}
func (f *fakeService) Table(ctx context.Context, q TableQuery) (TableResult, error) {
	return TableResult{Durations: [][]float64{{0}}}, nil
}
func (f *fakeService) Nearest(ctx context.Context, q NearestQuery) (NearestResult, error) {
	return f.nearestResult, f.nearestErr
}
func (f *fakeService) Match(ctx context.Context, q MatchQuery) (MatchResult, error) {
	return MatchResult{}, nil
}
func (f *fakeService) Trip(ctx context.Context, q TripQuery) (TripResult, error) {
	return TripResult{Order: []int{0, 1}}, nil
}
func (f *fakeService) Tile(ctx context.Context, z, x, y int) (TileResult, error) {
	return f.tileResult, f.tileErr
}

func newTestRouter(svc Service) http.Handler {
	return NewRouter(svc, prometheus.NewRegistry())
}

func TestRouteRejectsSingleCoordinate(t *testing.T) {
	r := newTestRouter(&fakeService{})
	body, _ := json.Marshal(RouteRequest{Coordinates: []Coord{{Lat: 1, Lon: 1}}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/route", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteReturnsDistanceAndDuration(t *testing.T) {
	svc := &fakeService{routeResult: RouteResult{Distance: 1200, Duration: 90}}
	r := newTestRouter(svc)
	body, _ := json.Marshal(RouteRequest{Coordinates: []Coord{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/route", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1200.0, resp.Distance)
	require.Equal(t, 90.0, resp.Duration)
}

func TestRouteMapsNoRouteToOKWithNoRouteStatus(t *testing.T) {
	svc := &fakeService{routeErr: chsearch.ErrNoRoute}
	r := newTestRouter(svc)
	body, _ := json.Marshal(RouteRequest{Coordinates: []Coord{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/route", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "NoRoute", resp.StatusText)
}

func TestNearestMapsEmptyResultToNoSegment(t *testing.T) {
	svc := &fakeService{nearestErr: spatial.ErrNoSegment}
	r := newTestRouter(svc)
	body, _ := json.Marshal(NearestRequest{Lat: 1, Lon: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/nearest", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "NoSegment", resp.StatusText)
}

func TestRouteRendersAlternatives(t *testing.T) {
	svc := &fakeService{routeResult: RouteResult{
		Distance: 2000,
		Duration: 150,
		Alternatives: []AlternativeResult{
			{Distance: 2200, Duration: 180},
		},
	}}
	r := newTestRouter(svc)
	body, _ := json.Marshal(RouteRequest{
		Coordinates:  []Coord{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}},
		Alternatives: true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/route", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Alternatives, 1)
	require.Equal(t, 2200.0, resp.Alternatives[0].Distance)
}

func TestTileRejectsOutOfRangeCoordinates(t *testing.T) {
	svc := &fakeService{tileErr: ErrInvalidInput}
	r := newTestRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tile/3/999/999", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTileBoundsRejectsOutOfRangeIndices(t *testing.T) {
	_, err := tileBounds(3, 999, 999)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTileBoundsCoversWholeWorldAtZoomZero(t *testing.T) {
	box, err := tileBounds(0, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, -180, box.MinLon, 0.001)
	require.InDelta(t, 180, box.MaxLon, 0.001)
}
