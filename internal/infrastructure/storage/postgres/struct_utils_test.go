package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	ClassLevel string `db:"class_level" json:"classLevel"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name", "class_level",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
			Code: "BK-2026-00042",
			Name: "Chemistry Basics",
		},
		ClassLevel: "10",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "BK-2026-00042", m["code"])
	assert.Equal(t, "Chemistry Basics", m["name"])
	assert.Equal(t, "10", m["class_level"])
}
