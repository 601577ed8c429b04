package service

import (
	"testing"

	"novelhub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
)

func sampleCatalog() []models.Novel {
	return []models.Novel{
		{ID: "n1", Title: "Sword Saga", Author: "Aoi Mori", RegionID: 1, Status: models.NovelStatusOngoing,
			Genres: []models.Genre{{ID: 1, Name: "Action"}, {ID: 5, Name: "Fantasy"}}},
		{ID: "n2", Title: "Moonlight Garden", Author: "Hana Sato", RegionID: 2, Status: models.NovelStatusCompleted,
			Genres: []models.Genre{{ID: 8, Name: "Romance"}}},
		{ID: "n3", Title: "Iron Regent", Author: "Wei Zhang", RegionID: 3, Status: models.NovelStatusHiatus,
			Genres: []models.Genre{{ID: 1, Name: "Action"}, {ID: 4, Name: "Drama"}}},
		{ID: "n4", Title: "Quiet Letters", Author: "Saga Lindqvist", RegionID: 4, Status: models.NovelStatusOngoing,
			Genres: nil},
	}
}

func TestFilterNovels_EmptyFilterPassesThrough(t *testing.T) {
	catalog := sampleCatalog()

	got := FilterNovels(catalog, CatalogFilter{})

	assert.Len(t, got, len(catalog))
	for i := range catalog {
		assert.Equal(t, catalog[i].ID, got[i].ID)
	}
}

func TestFilterNovels_TermMatchesTitleOrAuthor(t *testing.T) {
	catalog := sampleCatalog()

	// "saga" is a substring of the title "Sword Saga" and of the author
	// "Saga Lindqvist"; matching is case-insensitive over both fields.
	got := FilterNovels(catalog, CatalogFilter{Term: "saga"})

	assert.Len(t, got, 2)
	assert.Equal(t, "n1", got[0].ID)
	assert.Equal(t, "n4", got[1].ID)
}

func TestFilterNovels_AllCriteriaAnded(t *testing.T) {
	catalog := sampleCatalog()

	got := FilterNovels(catalog, CatalogFilter{
		Term:      "a",
		RegionIDs: []int64{1, 3},
		Statuses:  []string{models.NovelStatusOngoing},
		GenreIDs:  []int64{1},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "n1", got[0].ID)
}

func TestFilterNovels_GenreIntersection(t *testing.T) {
	catalog := sampleCatalog()

	// any overlap with the selected genre set keeps the novel
	got := FilterNovels(catalog, CatalogFilter{GenreIDs: []int64{4, 8}})

	assert.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, "n3", got[1].ID)

	// novels with no genres never match a non-empty genre selection
	for _, n := range got {
		assert.NotEqual(t, "n4", n.ID)
	}
}

func TestFilterNovels_ResultIsSubsetInOrder(t *testing.T) {
	catalog := sampleCatalog()
	filter := CatalogFilter{Statuses: []string{models.NovelStatusOngoing, models.NovelStatusHiatus}}

	got := FilterNovels(catalog, filter)

	assert.LessOrEqual(t, len(got), len(catalog))
	// order preserved: ids appear in original catalog order
	assert.Equal(t, []string{"n1", "n3", "n4"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestFilterNovels_Idempotent(t *testing.T) {
	catalog := sampleCatalog()
	filter := CatalogFilter{Term: "a", RegionIDs: []int64{1, 2}}

	once := FilterNovels(catalog, filter)
	twice := FilterNovels(once, filter)

	assert.Equal(t, once, twice)
}

func TestFilterNovels_ClearingFilterRestoresCatalog(t *testing.T) {
	catalog := sampleCatalog()

	narrowed := FilterNovels(catalog, CatalogFilter{RegionIDs: []int64{2}})
	assert.Len(t, narrowed, 1)

	restored := FilterNovels(catalog, CatalogFilter{})
	assert.Len(t, restored, len(catalog))
}

func TestMeanRating(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []int
		expected float64
	}{
		{"no reviews", nil, 0},
		{"single review", []int{4}, 4.0},
		{"whole mean", []int{4, 5, 3}, 4.0},
		{"rounded to one decimal", []int{5, 4}, 4.5},
		{"repeating fraction", []int{5, 5, 4}, 4.7},
		{"all minimum", []int{1, 1, 1}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := make([]models.Review, 0, len(tt.ratings))
			for _, r := range tt.ratings {
				reviews = append(reviews, models.Review{Rating: r})
			}
			assert.Equal(t, tt.expected, MeanRating(reviews))
		})
	}
}
