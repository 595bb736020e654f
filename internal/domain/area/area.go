package area

import (
	"context"

	"github.com/mall/backend/internal/domain/shared"
)

// ErrAreaNotFound is returned for an unknown area id
var ErrAreaNotFound = shared.NewDomainError("AREA_NOT_FOUND", "Area does not exist")

// Area is one node of the province, city and district tree
type Area struct {
	ID       int64
	Name     string
	ParentID *int64
}

// IsProvince reports whether the area is a root of the tree
func (a *Area) IsProvince() bool {
	return a.ParentID == nil
}

// AreaRepository reads the administrative division tree. The tree is
// reference data loaded out of band and is never written by the service.
type AreaRepository interface {
	ListProvinces(ctx context.Context) ([]Area, error)
	FindByID(ctx context.Context, id int64) (*Area, error)
	ListChildren(ctx context.Context, parentID int64) ([]Area, error)
}
