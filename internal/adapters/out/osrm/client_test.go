package osrm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"optiroute/internal/adapters/out/osrm"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func TestClient_Table(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		// Second row carries a null: an unroutable pair.
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"distances": [[0, 1500], [null, 0]],
			"durations": [[0, 180], [null, 0]]
		}`))
	}))
	defer server.Close()

	client := osrm.NewClient(server.URL, time.Second)
	points := []kernel.GeoPoint{point(t, 48.8566, 2.3522), point(t, 48.86, 2.35)}

	dist, dur, err := client.Table(context.Background(), points)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/table/v1/driving/"), gotPath)
	assert.Contains(t, gotPath, "2.3522,48.8566;2.35,48.86")
	assert.Contains(t, gotQuery, "annotations=distance%2Cduration")

	require.Len(t, dist, 2)
	assert.InDelta(t, 1.5, dist[0][1], 1e-9) // meters to km
	assert.InDelta(t, 3.0, dur[0][1], 1e-9)  // seconds to minutes
	assert.Zero(t, dist[1][0])               // null cell densified to zero
}

func TestClient_Table_FewerThanTwoPoints(t *testing.T) {
	// No server: the degenerate case must not touch the network.
	client := osrm.NewClient("http://127.0.0.1:1", time.Second)

	dist, dur, err := client.Table(context.Background(), []kernel.GeoPoint{point(t, 48.85, 2.35)})
	require.NoError(t, err)
	require.Len(t, dist, 1)
	require.Len(t, dur, 1)
	assert.Zero(t, dist[0][0])
}

func TestClient_Route(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/route/v1/driving/"))
		assert.Equal(t, "false", r.URL.Query().Get("overview"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "Ok", "routes": [{"distance": 4200, "duration": 600}]}`))
	}))
	defer server.Close()

	client := osrm.NewClient(server.URL, time.Second)

	leg, err := client.Route(context.Background(), point(t, 48.8566, 2.3522), point(t, 48.86, 2.35))
	require.NoError(t, err)
	assert.InDelta(t, 4.2, leg.DistanceKm, 1e-9)
	assert.InDelta(t, 10.0, leg.DurationMin, 1e-9)
}

func TestClient_RouteFull_DecodesGeoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"distance": 2000,
				"duration": 240,
				"geometry": {"coordinates": [[2.3522, 48.8566], [2.35, 48.86]]}
			}]
		}`))
	}))
	defer server.Close()

	client := osrm.NewClient(server.URL, time.Second)
	points := []kernel.GeoPoint{point(t, 48.8566, 2.3522), point(t, 48.86, 2.35)}

	route, err := client.RouteFull(context.Background(), points)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, route.DistanceKm, 1e-9)
	assert.InDelta(t, 4.0, route.DurationMin, 1e-9)
	require.Len(t, route.Geometry, 2)
	// GeoJSON is lon,lat; the domain point is lat,lon.
	assert.InDelta(t, 48.8566, route.Geometry[0].Lat(), 1e-9)
	assert.InDelta(t, 2.3522, route.Geometry[0].Lon(), 1e-9)
}

func TestClient_ErrorsAreOracleErrors(t *testing.T) {
	t.Run("osrm error code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"code": "NoRoute", "message": "Impossible route between points"}`))
		}))
		defer server.Close()

		client := osrm.NewClient(server.URL, time.Second)
		_, err := client.Route(context.Background(), point(t, 48.85, 2.35), point(t, 48.86, 2.36))

		var oracleErr *ports.OracleError
		require.ErrorAs(t, err, &oracleErr)
		assert.Contains(t, oracleErr.Error(), "NoRoute")
	})

	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := osrm.NewClient(server.URL, time.Second)
		_, _, err := client.Table(context.Background(), []kernel.GeoPoint{
			point(t, 48.85, 2.35), point(t, 48.86, 2.36),
		})

		var oracleErr *ports.OracleError
		require.ErrorAs(t, err, &oracleErr)
	})

	t.Run("unreachable server", func(t *testing.T) {
		client := osrm.NewClient("http://127.0.0.1:1", 200*time.Millisecond)
		_, err := client.Route(context.Background(), point(t, 48.85, 2.35), point(t, 48.86, 2.36))

		var oracleErr *ports.OracleError
		require.ErrorAs(t, err, &oracleErr)
	})
}
