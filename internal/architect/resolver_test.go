package architect

import (
	"context"
	"testing"

	"buildings-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ArchitectLinks(ctx context.Context, buildingID int64) ([]models.ArchitectLink, error) {
	args := m.Called(ctx, buildingID)
	links, _ := args.Get(0).([]models.ArchitectLink)
	return links, args.Error(1)
}

func (m *MockStore) ArchitectMembers(ctx context.Context, architectID int64) ([]models.ArchitectMember, error) {
	args := m.Called(ctx, architectID)
	members, _ := args.Get(0).([]models.ArchitectMember)
	return members, args.Error(1)
}

func (m *MockStore) BuildingArchitectMembers(ctx context.Context, buildingID int64) ([]models.ArchitectMember, error) {
	args := m.Called(ctx, buildingID)
	members, _ := args.Get(0).([]models.ArchitectMember)
	return members, args.Error(1)
}

func strPtr(s string) *string { return &s }

func member(architectID, individualID int64, name string, order int) models.ArchitectMember {
	return models.ArchitectMember{
		ArchitectID:           architectID,
		IndividualArchitectID: individualID,
		NameJa:                name,
		OrderIndex:            order,
	}
}

func names(architects []models.Architect) []string {
	out := make([]string, 0, len(architects))
	for _, a := range architects {
		out = append(out, a.ArchitectJa)
	}
	return out
}

func assertNonDecreasing(t *testing.T, architects []models.Architect) {
	t.Helper()
	for i := 1; i < len(architects); i++ {
		assert.LessOrEqual(t, architects[i-1].OrderIndex, architects[i].OrderIndex)
	}
}

func TestResolver_Composition(t *testing.T) {
	tests := []struct {
		name     string
		members  []models.ArchitectMember
		expected []string
	}{
		{
			name: "sorted by order index",
			members: []models.ArchitectMember{
				member(1, 11, "西沢立衛", 2),
				member(1, 10, "妹島和世", 1),
			},
			expected: []string{"妹島和世", "西沢立衛"},
		},
		{
			name: "individual reached through two compositions appears once",
			members: []models.ArchitectMember{
				member(1, 10, "妹島和世", 1),
				member(2, 10, "妹島和世", 3),
				member(2, 12, "SANAA", 2),
			},
			expected: []string{"妹島和世", "SANAA"},
		},
		{
			name: "ties keep fetch order",
			members: []models.ArchitectMember{
				member(1, 20, "c", 1),
				member(1, 21, "a", 1),
				member(1, 22, "b", 0),
			},
			expected: []string{"b", "c", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			store.On("BuildingArchitectMembers", mock.Anything, int64(1)).Return(tt.members, nil)
			r := NewResolver(store, GenerationComposition, zerolog.Nop())

			architects, err := r.Resolve(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(architects))
			assertNonDecreasing(t, architects)
			for _, a := range architects {
				require.NotNil(t, a.IndividualArchitectID)
				assert.Equal(t, a.ArchitectJa, a.ArchitectEn)
				assert.Equal(t, []models.Website{}, a.Websites)
			}
			store.AssertNotCalled(t, "ArchitectLinks", mock.Anything, mock.Anything)
		})
	}
}

func TestResolver_CompositionFallsBackToLegacy(t *testing.T) {
	tests := []struct {
		name        string
		compMembers []models.ArchitectMember
		compError   error
	}{
		{name: "composition query fails", compError: assert.AnError},
		{name: "building not migrated yet", compMembers: []models.ArchitectMember{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			store.On("BuildingArchitectMembers", mock.Anything, int64(3)).Return(tt.compMembers, tt.compError)
			store.On("ArchitectLinks", mock.Anything, int64(3)).Return([]models.ArchitectLink{
				{BuildingID: 3, ArchitectID: 7, ArchitectOrder: 0, NameJa: "安藤忠雄"},
			}, nil)
			store.On("ArchitectMembers", mock.Anything, int64(7)).Return([]models.ArchitectMember{
				{ArchitectID: 7, IndividualArchitectID: 70, NameJa: "安藤忠雄", NameEn: strPtr("Tadao Ando"), Slug: strPtr("tadao-ando"), OrderIndex: 0},
			}, nil)
			r := NewResolver(store, GenerationComposition, zerolog.Nop())

			architects, err := r.Resolve(context.Background(), 3)

			require.NoError(t, err)
			require.Len(t, architects, 1)
			assert.Equal(t, "Tadao Ando", architects[0].ArchitectEn)
			assert.Equal(t, "tadao-ando", architects[0].Slug)
			store.AssertExpectations(t)
		})
	}
}

func TestResolver_Legacy(t *testing.T) {
	store := new(MockStore)
	store.On("ArchitectLinks", mock.Anything, int64(1)).Return([]models.ArchitectLink{
		{BuildingID: 1, ArchitectID: 100, ArchitectOrder: 0, NameJa: "SANAA"},
		{BuildingID: 1, ArchitectID: 200, ArchitectOrder: 1, NameJa: "失敗グループ"},
		{BuildingID: 1, ArchitectID: 300, ArchitectOrder: 2, NameJa: "丹下健三　坪井善勝", NameEn: strPtr("Kenzo Tange　Yoshikatsu Tsuboi")},
	}, nil)
	store.On("ArchitectMembers", mock.Anything, int64(100)).Return([]models.ArchitectMember{
		member(100, 11, "西沢立衛", 1),
		member(100, 10, "妹島和世", 0),
	}, nil)
	store.On("ArchitectMembers", mock.Anything, int64(200)).Return(nil, assert.AnError)
	store.On("ArchitectMembers", mock.Anything, int64(300)).Return([]models.ArchitectMember{}, nil)
	r := NewResolver(store, GenerationLegacy, zerolog.Nop())

	architects, err := r.Resolve(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"妹島和世", "西沢立衛", "丹下健三", "坪井善勝"}, names(architects))
	assertNonDecreasing(t, architects)
	assert.Equal(t, "Yoshikatsu Tsuboi", architects[3].ArchitectEn)
	assert.Nil(t, architects[3].IndividualArchitectID)
	assert.Equal(t, int64(300), architects[3].ArchitectID)
	store.AssertNotCalled(t, "BuildingArchitectMembers", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestResolver_LegacyLinkFailure(t *testing.T) {
	store := new(MockStore)
	store.On("ArchitectLinks", mock.Anything, int64(1)).Return(nil, assert.AnError)
	r := NewResolver(store, GenerationLegacy, zerolog.Nop())

	architects, err := r.Resolve(context.Background(), 1)

	assert.Error(t, err)
	assert.Nil(t, architects)
}

func TestResolver_LegacyCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := new(MockStore)
	store.On("ArchitectLinks", mock.Anything, int64(1)).Return([]models.ArchitectLink{
		{BuildingID: 1, ArchitectID: 100, ArchitectOrder: 0, NameJa: "SANAA"},
		{BuildingID: 1, ArchitectID: 200, ArchitectOrder: 1, NameJa: "丹下健三"},
	}, nil)
	store.On("ArchitectMembers", mock.Anything, mock.Anything).Return(nil, context.Canceled).Maybe()
	r := NewResolver(store, GenerationLegacy, zerolog.Nop())

	architects, err := r.Resolve(ctx, 1)

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, architects)
}

func TestResolver_LegacyNoLinks(t *testing.T) {
	store := new(MockStore)
	store.On("ArchitectLinks", mock.Anything, int64(1)).Return([]models.ArchitectLink{}, nil)
	r := NewResolver(store, GenerationLegacy, zerolog.Nop())

	architects, err := r.Resolve(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []models.Architect{}, architects)
}

func TestParseGeneration(t *testing.T) {
	assert.Equal(t, GenerationLegacy, ParseGeneration(" Legacy "))
	assert.Equal(t, GenerationComposition, ParseGeneration("composition"))
	assert.Equal(t, GenerationComposition, ParseGeneration(""))
}
