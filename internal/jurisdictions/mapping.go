package jurisdictions

import (
	"github.com/aquaguardian/aquaguardian/pkg/query"
	"github.com/aquaguardian/aquaguardian/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "jurisdictions", "j").
	Project("id", "ID").
	Project("government_user_id", "GovernmentUserID").
	Project("name", "Name").
	Project("code", "Code").
	Project("center_lat", "CenterLat").
	Project("center_lng", "CenterLng").
	Project("radius_km", "RadiusKm").
	Project("created_at", "CreatedAt")

// Registration order doubles as resolution order, so the sort is part of the
// routing contract, not presentation.
var resolutionOrder = []query.SortField{
	{Field: "CreatedAt"},
	{Field: "ID"},
}

func scanJurisdiction(s repository.Scanner) (Jurisdiction, error) {
	var j Jurisdiction
	err := s.Scan(
		&j.ID,
		&j.GovernmentUserID,
		&j.Name,
		&j.Code,
		&j.CenterLat,
		&j.CenterLng,
		&j.RadiusKm,
		&j.CreatedAt,
	)
	return j, err
}
