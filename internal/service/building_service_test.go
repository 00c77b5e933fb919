package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"buildings-api/internal/models"
	"buildings-api/internal/normalize"
	"buildings-api/internal/search"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBuildingRepository is a mock implementation of the BuildingRepository interface
type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) GetBuildingByID(ctx context.Context, id int64) (models.RawJoinRow, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.RawJoinRow), args.Error(1)
}

func (m *MockBuildingRepository) GetBuildingBySlug(ctx context.Context, slug string) (models.RawJoinRow, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.RawJoinRow), args.Error(1)
}

func (m *MockBuildingRepository) BuildingPhotos(ctx context.Context, buildingID int64) ([]models.Photo, error) {
	args := m.Called(ctx, buildingID)
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockBuildingRepository) IncrementBuildingLikes(ctx context.Context, buildingID int64) (int, error) {
	args := m.Called(ctx, buildingID)
	return args.Int(0), args.Error(1)
}

func (m *MockBuildingRepository) IncrementPhotoLikes(ctx context.Context, photoID int64) (int, error) {
	args := m.Called(ctx, photoID)
	return args.Int(0), args.Error(1)
}

func (m *MockBuildingRepository) SuggestTerms(ctx context.Context, q string, limit int) ([]string, error) {
	args := m.Called(ctx, q, limit)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBuildingRepository) RecordSearch(ctx context.Context, entry models.SearchHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBuildingRepository) PopularSearches(ctx context.Context, since time.Time, limit int) ([]models.PopularSearch, error) {
	args := m.Called(ctx, since, limit)
	return args.Get(0).([]models.PopularSearch), args.Error(1)
}

// MockSearcher is a mock implementation of the Searcher interface
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, q models.SearchQuery) search.Outcome {
	args := m.Called(ctx, q)
	return args.Get(0).(search.Outcome)
}

func (m *MockSearcher) List(ctx context.Context, page, limit int) search.Outcome {
	args := m.Called(ctx, page, limit)
	return args.Get(0).(search.Outcome)
}

func (m *MockSearcher) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) search.Outcome {
	args := m.Called(ctx, lat, lng, radiusKm, limit)
	return args.Get(0).(search.Outcome)
}

func (m *MockSearcher) Run(ctx context.Context, q models.SearchQuery, chain []search.Kind) search.Outcome {
	args := m.Called(ctx, q, chain)
	return args.Get(0).(search.Outcome)
}

// MockSession is a mock implementation of the SessionContext interface
type MockSession struct {
	mock.Mock
}

func (m *MockSession) SessionID() string {
	return m.Called().String(0)
}

func (m *MockSession) CanSearch(query, searchType string) bool {
	return m.Called(query, searchType).Bool(0)
}

var testOptions = Options{
	DefaultLimit:        20,
	MaxLimit:            100,
	SuggestionLimit:     10,
	NearbyDefaultRadius: 5,
	PopularSearchWindow: 24 * time.Hour,
}

func strPtr(s string) *string { return &s }

func newTestBuildingService(repo *MockBuildingRepository, searcher *MockSearcher) *BuildingService {
	normalizer := normalize.New(nil, nil, zerolog.Nop())
	return NewBuildingService(repo, searcher, normalizer, testOptions, zerolog.Nop())
}

func validRow(id int64) models.RawJoinRow {
	return models.RawJoinRow{BuildingColumns: models.BuildingColumns{
		ID:    id,
		Slug:  strPtr("tokyo-station"),
		Title: "東京駅",
		Lat:   strPtr("35.681236"),
		Lng:   strPtr("139.767125"),
	}}
}

func TestBuildingService_Get(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		setup        func(repo *MockBuildingRepository)
		expectStatus int
		expectPhotos int
	}{
		{
			name: "numeric key looks up by id",
			key:  "1",
			setup: func(repo *MockBuildingRepository) {
				repo.On("GetBuildingByID", mock.Anything, int64(1)).Return(validRow(1), nil)
				repo.On("BuildingPhotos", mock.Anything, int64(1)).Return([]models.Photo{{ID: 7, BuildingID: 1}}, nil)
			},
			expectPhotos: 1,
		},
		{
			name: "other keys look up by slug",
			key:  "tokyo-station",
			setup: func(repo *MockBuildingRepository) {
				repo.On("GetBuildingBySlug", mock.Anything, "tokyo-station").Return(validRow(1), nil)
				repo.On("BuildingPhotos", mock.Anything, int64(1)).Return([]models.Photo{}, nil)
			},
		},
		{
			name: "photo failure keeps the building",
			key:  "1",
			setup: func(repo *MockBuildingRepository) {
				repo.On("GetBuildingByID", mock.Anything, int64(1)).Return(validRow(1), nil)
				repo.On("BuildingPhotos", mock.Anything, int64(1)).Return([]models.Photo(nil), assert.AnError)
			},
		},
		{
			name: "missing building",
			key:  "404",
			setup: func(repo *MockBuildingRepository) {
				repo.On("GetBuildingByID", mock.Anything, int64(404)).Return(models.RawJoinRow{}, models.ErrNotFound)
				repo.On("GetBuildingBySlug", mock.Anything, "404").Return(models.RawJoinRow{}, models.ErrNotFound)
			},
			expectStatus: http.StatusNotFound,
		},
		{
			name: "numeric slug found after id miss",
			key:  "2020",
			setup: func(repo *MockBuildingRepository) {
				repo.On("GetBuildingByID", mock.Anything, int64(2020)).Return(models.RawJoinRow{}, models.ErrNotFound)
				repo.On("GetBuildingBySlug", mock.Anything, "2020").Return(validRow(1), nil)
				repo.On("BuildingPhotos", mock.Anything, int64(1)).Return([]models.Photo{}, nil)
			},
		},
		{
			name: "id lookup failure is not retried as slug",
			key:  "3",
			setup: func(repo *MockBuildingRepository) {
				repo.On("GetBuildingByID", mock.Anything, int64(3)).Return(models.RawJoinRow{}, assert.AnError)
			},
			expectStatus: http.StatusInternalServerError,
		},
		{
			name: "invalid coordinates read as missing",
			key:  "2",
			setup: func(repo *MockBuildingRepository) {
				row := validRow(2)
				row.Lat = nil
				repo.On("GetBuildingByID", mock.Anything, int64(2)).Return(row, nil)
			},
			expectStatus: http.StatusNotFound,
		},
		{
			name: "storage failure",
			key:  "broken",
			setup: func(repo *MockBuildingRepository) {
				repo.On("GetBuildingBySlug", mock.Anything, "broken").Return(models.RawJoinRow{}, assert.AnError)
			},
			expectStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBuildingRepository)
			svc := newTestBuildingService(repo, new(MockSearcher))
			tt.setup(repo)

			b, err := svc.Get(context.Background(), tt.key)

			if tt.expectStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.expectStatus, models.StatusOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), b.ID)
				assert.Equal(t, 35.681236, b.Lat)
				assert.Len(t, b.Photos, tt.expectPhotos)
				assert.NotNil(t, b.Photos)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestBuildingService_List(t *testing.T) {
	repo := new(MockBuildingRepository)
	searcher := new(MockSearcher)
	svc := newTestBuildingService(repo, searcher)

	want := models.SearchResult{Buildings: []models.Building{{ID: 1}}, Total: 31}
	searcher.On("List", mock.Anything, 1, 100).Return(search.Outcome{Result: want, Strategy: search.KindList})

	result := svc.List(context.Background(), 0, 500)

	assert.Equal(t, want, result)
	searcher.AssertExpectations(t)
}

func TestBuildingService_Search(t *testing.T) {
	result := models.SearchResult{Buildings: []models.Building{{ID: 3}}, Total: 1}

	tests := []struct {
		name      string
		filters   models.SearchFilters
		session   func() *MockSession
		record    bool
		recordErr error
	}{
		{
			name:    "records text search",
			filters: models.SearchFilters{Query: "  安藤忠雄 "},
			session: func() *MockSession {
				s := new(MockSession)
				s.On("CanSearch", "安藤忠雄", SearchTypeText).Return(true)
				s.On("SessionID").Return("session-1")
				return s
			},
			record: true,
		},
		{
			name:    "records filtered search type",
			filters: models.SearchFilters{Query: "museum", Prefectures: []string{"東京都"}},
			session: func() *MockSession {
				s := new(MockSession)
				s.On("CanSearch", "museum", SearchTypeFilter).Return(true)
				s.On("SessionID").Return("session-1")
				return s
			},
			record: true,
		},
		{
			name:    "duplicate within window is not recorded",
			filters: models.SearchFilters{Query: "安藤忠雄"},
			session: func() *MockSession {
				s := new(MockSession)
				s.On("CanSearch", "安藤忠雄", SearchTypeText).Return(false)
				return s
			},
		},
		{
			name:    "blank query is not recorded",
			filters: models.SearchFilters{Query: "   ", HasPhotos: true},
			session: func() *MockSession { return new(MockSession) },
		},
		{
			name:    "history failure does not fail the search",
			filters: models.SearchFilters{Query: "tower"},
			session: func() *MockSession {
				s := new(MockSession)
				s.On("CanSearch", "tower", SearchTypeText).Return(true)
				s.On("SessionID").Return("session-2")
				return s
			},
			record:    true,
			recordErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBuildingRepository)
			searcher := new(MockSearcher)
			svc := newTestBuildingService(repo, searcher)
			sess := tt.session()

			q := models.SearchQuery{Filters: tt.filters, Page: 2, Limit: 0, Language: models.LanguageEn}
			expectedQuery := q
			expectedQuery.Limit = testOptions.DefaultLimit
			searcher.On("Search", mock.Anything, expectedQuery).Return(search.Outcome{Result: result, Strategy: search.KindFullText})
			if tt.record {
				repo.On("RecordSearch", mock.Anything, mock.MatchedBy(func(e models.SearchHistoryEntry) bool {
					return e.Query == tt.filters.TrimmedQuery() && e.SessionID != "" && e.Filters.Query == tt.filters.Query
				})).Return(tt.recordErr)
			}

			got := svc.Search(context.Background(), q, sess)

			assert.Equal(t, result, got)
			searcher.AssertExpectations(t)
			repo.AssertExpectations(t)
			sess.AssertExpectations(t)
		})
	}
}

func TestBuildingService_SearchWithoutSession(t *testing.T) {
	repo := new(MockBuildingRepository)
	searcher := new(MockSearcher)
	svc := newTestBuildingService(repo, searcher)

	searcher.On("Search", mock.Anything, mock.Anything).Return(search.Outcome{Result: models.EmptyResult(), Strategy: search.KindNone})

	got := svc.Search(context.Background(), models.SearchQuery{Filters: models.SearchFilters{Query: "x"}}, nil)

	assert.Equal(t, models.EmptyResult(), got)
	repo.AssertNotCalled(t, "RecordSearch", mock.Anything, mock.Anything)
}

func TestBuildingService_Nearby(t *testing.T) {
	repo := new(MockBuildingRepository)
	searcher := new(MockSearcher)
	svc := newTestBuildingService(repo, searcher)

	buildings := []models.Building{{ID: 1}, {ID: 2}}
	searcher.On("Nearby", mock.Anything, 35.0, 139.0, 5.0, 20).Return(search.Outcome{
		Result:   models.SearchResult{Buildings: buildings, Total: 2},
		Strategy: search.KindSpatial,
	})

	got := svc.Nearby(context.Background(), 35.0, 139.0, 0, 0)

	assert.Equal(t, buildings, got)
	searcher.AssertExpectations(t)
}

func TestBuildingService_Likes(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		like         func(svc *BuildingService) (int, error)
		mockLikes    int
		mockError    error
		expectStatus int
		expectCode   string
	}{
		{
			name:      "building like",
			method:    "IncrementBuildingLikes",
			like:      func(svc *BuildingService) (int, error) { return svc.LikeBuilding(context.Background(), 5) },
			mockLikes: 12,
		},
		{
			name:         "missing building",
			method:       "IncrementBuildingLikes",
			like:         func(svc *BuildingService) (int, error) { return svc.LikeBuilding(context.Background(), 5) },
			mockError:    models.ErrNotFound,
			expectStatus: http.StatusNotFound,
			expectCode:   models.ErrCodeBuildingNotFound,
		},
		{
			name:         "missing photo",
			method:       "IncrementPhotoLikes",
			like:         func(svc *BuildingService) (int, error) { return svc.LikePhoto(context.Background(), 5) },
			mockError:    models.ErrNotFound,
			expectStatus: http.StatusNotFound,
			expectCode:   models.ErrCodePhotoNotFound,
		},
		{
			name:         "photo storage failure",
			method:       "IncrementPhotoLikes",
			like:         func(svc *BuildingService) (int, error) { return svc.LikePhoto(context.Background(), 5) },
			mockError:    assert.AnError,
			expectStatus: http.StatusInternalServerError,
			expectCode:   models.ErrCodeUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBuildingRepository)
			svc := newTestBuildingService(repo, new(MockSearcher))
			repo.On(tt.method, mock.Anything, int64(5)).Return(tt.mockLikes, tt.mockError)

			likes, err := tt.like(svc)

			if tt.expectStatus != 0 {
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.expectStatus, appErr.Status)
				assert.Equal(t, tt.expectCode, appErr.Code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockLikes, likes)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestBuildingService_Suggestions(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		mockTerms []string
		mockError error
		expected  []string
	}{
		{
			name:     "blank query",
			query:    "  ",
			expected: []string{},
		},
		{
			name:      "terms returned",
			query:     "Tok",
			mockTerms: []string{"Tokyo Station", "Tokyo Tower"},
			expected:  []string{"Tokyo Station", "Tokyo Tower"},
		},
		{
			name:      "no matches",
			query:     "zzz",
			mockTerms: nil,
			expected:  []string{},
		},
		{
			name:      "lookup failure is absorbed",
			query:     "Tok",
			mockTerms: nil,
			mockError: assert.AnError,
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBuildingRepository)
			svc := newTestBuildingService(repo, new(MockSearcher))
			if strings.TrimSpace(tt.query) != "" {
				repo.On("SuggestTerms", mock.Anything, tt.query, testOptions.SuggestionLimit).Return(tt.mockTerms, tt.mockError)
			}

			got := svc.Suggestions(context.Background(), tt.query)

			assert.Equal(t, tt.expected, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestBuildingService_PopularSearches(t *testing.T) {
	repo := new(MockBuildingRepository)
	svc := newTestBuildingService(repo, new(MockSearcher))
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	popular := []models.PopularSearch{{Query: "東京", Count: 4}}
	repo.On("PopularSearches", mock.Anything, now.Add(-24*time.Hour), 10).Return(popular, nil).Once()
	repo.On("PopularSearches", mock.Anything, now.Add(-24*time.Hour), 3).Return([]models.PopularSearch(nil), assert.AnError).Once()

	got, err := svc.PopularSearches(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, popular, got)

	_, err = svc.PopularSearches(context.Background(), 3)
	assert.Error(t, err)

	repo.AssertExpectations(t)
}
