package area

import "github.com/mall/backend/internal/domain/area"

// AreaResponse is one area in API responses
type AreaResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AreaDetailResponse is an area with its direct subdivisions
type AreaDetailResponse struct {
	ID   int64          `json:"id"`
	Name string         `json:"name"`
	Subs []AreaResponse `json:"subs"`
}

func toAreaResponses(areas []area.Area) []AreaResponse {
	out := make([]AreaResponse, len(areas))
	for i, a := range areas {
		out[i] = AreaResponse{ID: a.ID, Name: a.Name}
	}
	return out
}
