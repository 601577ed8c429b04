package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"novelhub/internal/microservices/http-api/dto"
	"novelhub/internal/microservices/http-api/handler"
	"novelhub/internal/microservices/http-api/models"
	"novelhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICE ---

type MockNovelService struct {
	mock.Mock
}

func (m *MockNovelService) GetAll(ctx context.Context, page, pageSize int) ([]models.Novel, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Novel), args.Get(1).(int64), args.Error(2)
}

func (m *MockNovelService) GetByID(ctx context.Context, id string) (*models.Novel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Novel), args.Error(1)
}

func (m *MockNovelService) GetDetail(ctx context.Context, id string) (*dto.NovelDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NovelDetailResponse), args.Error(1)
}

func (m *MockNovelService) Create(ctx context.Context, n *models.Novel) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNovelService) Update(ctx context.Context, id string, n *models.Novel) error {
	args := m.Called(ctx, id, n)
	return args.Error(0)
}

func (m *MockNovelService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNovelService) Search(ctx context.Context, filter service.CatalogFilter) ([]models.Novel, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockNovelService) ReplaceGenresForNovel(ctx context.Context, novelID string, genreIDs []int64) error {
	args := m.Called(ctx, novelID, genreIDs)
	return args.Error(0)
}

// --- SETUP ---

func setupNovelRouter(mockService *MockNovelService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewNovelHandler(mockService)

	rg := r.Group("/api/novels")
	{
		rg.GET("/", h.List)
		rg.GET("/search", h.Search)
		rg.GET("/:novel_id", h.Get)
	}
	return r
}

func sampleNovel(id, title, author string) models.Novel {
	return models.Novel{
		ID:        id,
		Title:     title,
		Author:    author,
		RegionID:  1,
		Status:    models.NovelStatusOngoing,
		CreatedAt: time.Now(),
	}
}

// --- TESTS ---

func TestNovelHandler_List(t *testing.T) {
	mockService := new(MockNovelService)
	router := setupNovelRouter(mockService)

	novels := []models.Novel{
		sampleNovel("n1", "Ascendance of a Bookworm", "Miya Kazuki"),
		sampleNovel("n2", "Omniscient Reader", "Sing Shong"),
	}
	mockService.On("GetAll", mock.Anything, 1, 20).Return(novels, int64(2), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/novels/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data       []dto.NovelBasicResponse `json:"data"`
		Pagination map[string]any           `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, "Ascendance of a Bookworm", body.Data[0].Title)
	assert.Equal(t, float64(2), body.Pagination["total"])
	mockService.AssertExpectations(t)
}

func TestNovelHandler_GetDetail(t *testing.T) {
	mockService := new(MockNovelService)
	router := setupNovelRouter(mockService)

	detail := &dto.NovelDetailResponse{
		Novel: dto.NovelResponse{ID: "n1", Title: "Ascendance of a Bookworm"},
		Reviews: []dto.ReviewResponse{
			{ID: "r1", Username: "alice", Rating: 5},
			{ID: "r2", Username: "bob", Rating: 4},
		},
		ReviewCount:   2,
		AverageRating: 4.5,
	}
	mockService.On("GetDetail", mock.Anything, "n1").Return(detail, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/novels/n1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.NovelDetailResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "n1", body.Novel.ID)
	assert.Len(t, body.Reviews, 2)
	assert.Equal(t, 4.5, body.AverageRating)
	mockService.AssertExpectations(t)
}

func TestNovelHandler_GetDetail_NotFound(t *testing.T) {
	mockService := new(MockNovelService)
	router := setupNovelRouter(mockService)

	mockService.On("GetDetail", mock.Anything, "missing").Return(nil, service.ErrNovelNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/novels/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "novel not found")
	mockService.AssertExpectations(t)
}

func TestNovelHandler_Search_ParsesFilterParams(t *testing.T) {
	mockService := new(MockNovelService)
	router := setupNovelRouter(mockService)

	expected := service.CatalogFilter{
		Term:      "sword",
		RegionIDs: []int64{1, 2},
		Statuses:  []string{"ongoing", "completed"},
		GenreIDs:  []int64{4},
	}
	mockService.On("Search", mock.Anything, expected).
		Return([]models.Novel{sampleNovel("n1", "Sword Saga", "A. Writer")}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/novels/search?q=sword&regions=1,2&statuses=ongoing,completed&genres=4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data  []dto.NovelBasicResponse `json:"data"`
		Total int                      `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "Sword Saga", body.Data[0].Title)
	mockService.AssertExpectations(t)
}

func TestNovelHandler_Search_NoParamsMeansNoConstraint(t *testing.T) {
	mockService := new(MockNovelService)
	router := setupNovelRouter(mockService)

	mockService.On("Search", mock.Anything, service.CatalogFilter{}).
		Return([]models.Novel{
			sampleNovel("n1", "Ascendance of a Bookworm", "Miya Kazuki"),
			sampleNovel("n2", "Omniscient Reader", "Sing Shong"),
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/novels/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Total int `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	mockService.AssertExpectations(t)
}

func TestNovelHandler_Search_InvalidStatus(t *testing.T) {
	mockService := new(MockNovelService)
	router := setupNovelRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/novels/search?statuses=finished", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}

func TestNovelHandler_Search_InvalidRegionID(t *testing.T) {
	mockService := new(MockNovelService)
	router := setupNovelRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/novels/search?regions=jp", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}
