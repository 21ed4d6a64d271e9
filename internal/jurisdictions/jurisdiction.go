// Package jurisdictions implements the jurisdiction domain: circular
// authority boundaries and the geographic resolver that routes new reports
// to the authority whose circle contains them.
package jurisdictions

import (
	"time"

	"github.com/google/uuid"

	"github.com/aquaguardian/aquaguardian/pkg/geo"
)

// Jurisdiction represents a government authority's circular coverage area.
type Jurisdiction struct {
	ID               uuid.UUID `json:"id"`
	GovernmentUserID uuid.UUID `json:"government_user_id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	CenterLat        float64   `json:"center_lat"`
	CenterLng        float64   `json:"center_lng"`
	RadiusKm         float64   `json:"radius_km"`
	CreatedAt        time.Time `json:"created_at"`
}

// FirstMatch returns the id of the first jurisdiction whose circle contains
// the point, preserving slice order. Nil when no circle contains it.
func FirstMatch(all []Jurisdiction, lat, lng float64) *uuid.UUID {
	for _, j := range all {
		if geo.WithinRadius(lat, lng, j.CenterLat, j.CenterLng, j.RadiusKm) {
			return &j.ID
		}
	}
	return nil
}

// CreateCommand carries the data needed to register a new jurisdiction.
type CreateCommand struct {
	GovernmentUserID uuid.UUID `json:"government_user_id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	CenterLat        float64   `json:"center_lat"`
	CenterLng        float64   `json:"center_lng"`
	RadiusKm         float64   `json:"radius_km"`
}

// Validate checks command fields against coordinate and radius bounds.
func (c CreateCommand) Validate() error {
	if c.Name == "" {
		return ErrInvalidJurisdiction
	}
	if c.Code == "" {
		return ErrInvalidJurisdiction
	}
	if c.CenterLat < -90 || c.CenterLat > 90 {
		return ErrInvalidCoordinates
	}
	if c.CenterLng < -180 || c.CenterLng > 180 {
		return ErrInvalidCoordinates
	}
	if c.RadiusKm <= 0 {
		return ErrInvalidJurisdiction
	}
	return nil
}
