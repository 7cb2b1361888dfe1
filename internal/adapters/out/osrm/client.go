// Package osrm implements the route oracle port against an OSRM HTTP
// backend (table, route and geometry services of the v1 driving profile).
package osrm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/ports"
)

// DefaultTimeout bounds every OSRM request.
const DefaultTimeout = 15 * time.Second

// Client queries an OSRM server. It implements ports.RouteOracle; every
// failure is wrapped in a ports.OracleError so callers can detect oracle
// outages and fall back to estimates.
type Client struct {
	http *resty.Client
}

// NewClient creates an OSRM client for the given base URL, for example
// "http://localhost:5000". A non-positive timeout falls back to
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout),
	}
}

// tableResponse mirrors the OSRM table service payload. Unroutable pairs
// come back as JSON null, hence the pointers.
type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Table returns the full distance (km) and duration (min) matrices for the
// given points in one round trip. Fewer than two points yield empty
// matrices without touching the network.
func (c *Client) Table(ctx context.Context, points []kernel.GeoPoint) ([][]float64, [][]float64, error) {
	if len(points) < 2 {
		n := len(points)
		dist := make([][]float64, n)
		dur := make([][]float64, n)
		for i := range dist {
			dist[i] = make([]float64, n)
			dur[i] = make([]float64, n)
		}
		return dist, dur, nil
	}

	var out tableResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("annotations", "distance,duration").
		SetResult(&out).
		Get("/table/v1/driving/" + coords(points))
	if err != nil {
		return nil, nil, ports.NewOracleError("osrm table request failed", err)
	}
	if resp.IsError() {
		return nil, nil, ports.NewOracleError(fmt.Sprintf("osrm table returned HTTP %d", resp.StatusCode()), nil)
	}
	if out.Code != "Ok" {
		return nil, nil, ports.NewOracleError(fmt.Sprintf("osrm table failed: %s %s", out.Code, out.Message), nil)
	}

	dist := convertMatrix(out.Distances, metersToKm)
	dur := convertMatrix(out.Durations, secondsToMin)
	if len(dist) != len(points) || len(dur) != len(points) {
		return nil, nil, ports.NewOracleError("osrm table returned a truncated matrix", nil)
	}
	return dist, dur, nil
}

// Route returns the driving leg between two points.
func (c *Client) Route(ctx context.Context, from, to kernel.GeoPoint) (ports.Leg, error) {
	var out routeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("overview", "false").
		SetResult(&out).
		Get("/route/v1/driving/" + coords([]kernel.GeoPoint{from, to}))
	if err != nil {
		return ports.Leg{}, ports.NewOracleError("osrm route request failed", err)
	}
	if resp.IsError() {
		return ports.Leg{}, ports.NewOracleError(fmt.Sprintf("osrm route returned HTTP %d", resp.StatusCode()), nil)
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return ports.Leg{}, ports.NewOracleError(fmt.Sprintf("osrm route failed: %s %s", out.Code, out.Message), nil)
	}

	return ports.Leg{
		DistanceKm:  metersToKm(out.Routes[0].Distance),
		DurationMin: secondsToMin(out.Routes[0].Duration),
	}, nil
}

// RouteFull returns the complete driving route through the given points with
// its road-following geometry.
func (c *Client) RouteFull(ctx context.Context, points []kernel.GeoPoint) (ports.RouteGeometry, error) {
	if len(points) < 2 {
		return ports.RouteGeometry{Geometry: append([]kernel.GeoPoint(nil), points...)}, nil
	}

	var out routeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"overview":   "full",
			"geometries": "geojson",
		}).
		SetResult(&out).
		Get("/route/v1/driving/" + coords(points))
	if err != nil {
		return ports.RouteGeometry{}, ports.NewOracleError("osrm route request failed", err)
	}
	if resp.IsError() {
		return ports.RouteGeometry{}, ports.NewOracleError(fmt.Sprintf("osrm route returned HTTP %d", resp.StatusCode()), nil)
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return ports.RouteGeometry{}, ports.NewOracleError(fmt.Sprintf("osrm route failed: %s %s", out.Code, out.Message), nil)
	}

	r := out.Routes[0]
	geometry := make([]kernel.GeoPoint, 0, len(r.Geometry.Coordinates))
	for _, lonLat := range r.Geometry.Coordinates {
		if len(lonLat) < 2 {
			continue
		}
		p, pErr := kernel.NewGeoPoint(lonLat[1], lonLat[0])
		if pErr != nil {
			return ports.RouteGeometry{}, ports.NewOracleError("osrm returned an invalid coordinate", pErr)
		}
		geometry = append(geometry, p)
	}

	return ports.RouteGeometry{
		DistanceKm:  metersToKm(r.Distance),
		DurationMin: secondsToMin(r.Duration),
		Geometry:    geometry,
	}, nil
}

// coords renders points in OSRM's "lon,lat;lon,lat" path format.
func coords(points []kernel.GeoPoint) string {
	var sb strings.Builder
	for i, p := range points {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.FormatFloat(p.Lon(), 'f', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(p.Lat(), 'f', -1, 64))
	}
	return sb.String()
}

// convertMatrix densifies an OSRM matrix, treating null cells (unroutable
// pairs) as zero.
func convertMatrix(in [][]*float64, convert func(float64) float64) [][]float64 {
	out := make([][]float64, len(in))
	for i, row := range in {
		out[i] = make([]float64, len(row))
		for j, cell := range row {
			if cell != nil {
				out[i][j] = convert(*cell)
			}
		}
	}
	return out
}

func metersToKm(m float64) float64 { return m / 1000 }

func secondsToMin(s float64) float64 { return s / 60 }
