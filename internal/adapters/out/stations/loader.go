// Package stations loads the recharge station registry from a JSON file.
// The registry is small and static, so it is read once at startup rather
// than persisted in the database.
package stations

import (
	"encoding/json"
	"fmt"
	"os"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/station"
)

// stationRecord mirrors one entry of the registry file. Extra fields
// (operator, power) are accepted and ignored.
type stationRecord struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	PowerKw  float64 `json:"power_kw"`
	Operator string  `json:"operator"`
}

// Load reads the station registry at path and returns validated domain
// stations. A record that fails domain validation fails the whole load:
// a partially loaded registry would silently change recharge detours.
func Load(path string) ([]*station.RechargeStation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station registry: %w", err)
	}

	var records []stationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse station registry %s: %w", path, err)
	}

	stations := make([]*station.RechargeStation, 0, len(records))
	for _, rec := range records {
		location, err := kernel.NewGeoPoint(rec.Lat, rec.Lon)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", rec.ID, err)
		}

		s, err := station.NewRechargeStation(rec.ID, location, rec.Name)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", rec.ID, err)
		}
		stations = append(stations, s)
	}

	return stations, nil
}
