package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	areaapp "github.com/mall/backend/internal/application/area"
	"github.com/mall/backend/internal/domain/area"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAreaReader is a mock implementation of AreaReader
type MockAreaReader struct {
	mock.Mock
}

func (m *MockAreaReader) ListProvinces(ctx context.Context) ([]areaapp.AreaResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]areaapp.AreaResponse), args.Error(1)
}

func (m *MockAreaReader) Get(ctx context.Context, id int64) (*areaapp.AreaDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*areaapp.AreaDetailResponse), args.Error(1)
}

func TestAreaHandler_List(t *testing.T) {
	areas := new(MockAreaReader)
	h := NewAreaHandler(areas)
	r := newTestRouter(0)
	r.GET("/areas/", h.List)

	areas.On("ListProvinces", mock.Anything).Return([]areaapp.AreaResponse{
		{ID: 110000, Name: "Beijing"},
		{ID: 440000, Name: "Guangdong"},
	}, nil).Once()

	w := doJSON(r, http.MethodGet, "/areas/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []areaapp.AreaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "Guangdong", got[1].Name)

	areas.On("ListProvinces", mock.Anything).Return(nil, errors.New("db down"))
	w = doJSON(r, http.MethodGet, "/areas/", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAreaHandler_Get(t *testing.T) {
	areas := new(MockAreaReader)
	h := NewAreaHandler(areas)
	r := newTestRouter(0)
	r.GET("/areas/:id/", h.Get)

	areas.On("Get", mock.Anything, int64(440000)).Return(&areaapp.AreaDetailResponse{
		ID: 440000, Name: "Guangdong", Subs: []areaapp.AreaResponse{{ID: 440300, Name: "Shenzhen"}},
	}, nil)
	areas.On("Get", mock.Anything, int64(7)).Return(nil, area.ErrAreaNotFound)

	w := doJSON(r, http.MethodGet, "/areas/440000/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Guangdong", body["name"])
	assert.Len(t, body["subs"], 1)

	w = doJSON(r, http.MethodGet, "/areas/7/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "AREA_NOT_FOUND", decodeBody(t, w)["code"])

	w = doJSON(r, http.MethodGet, "/areas/abc/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	areas.AssertNumberOfCalls(t, "Get", 2)
}
