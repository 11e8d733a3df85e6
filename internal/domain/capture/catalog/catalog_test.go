package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

func TestRoundTrip(t *testing.T) {
	c := Default()
	c.Categories = append(c.Categories, common.Category{
		ID: "pets", CanonicalName: "pets", LocalizedName: "قطط", Direction: common.DirectionExpense,
	})

	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got.Categories, len(c.Categories))
	assert.Equal(t, c.Categories, got.Categories)
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	other, ok := c.Find(common.FallbackExpenseCategoryID)
	require.True(t, ok)
	assert.Equal(t, common.DirectionExpense, other.Direction)

	otherIncome, ok := c.Find(common.FallbackIncomeCategoryID)
	require.True(t, ok)
	assert.Equal(t, common.DirectionIncome, otherIncome.Direction)

	for _, cat := range c.ByDirection(common.DirectionIncome) {
		assert.Equal(t, common.DirectionIncome, cat.Direction, cat.ID)
	}
	assert.Len(t, c.ByDirection(common.DirectionExpense), 11)
	assert.Len(t, c.ByDirection(common.DirectionIncome), 7)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cats []common.Category
	}{
		{"missing id", []common.Category{{CanonicalName: "food", Direction: common.DirectionExpense}}},
		{"duplicate id", []common.Category{
			{ID: "food", Direction: common.DirectionExpense},
			{ID: "food", Direction: common.DirectionIncome},
		}},
		{"bad direction", []common.Category{{ID: "food", Direction: "sideways"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := (&Catalog{Categories: tc.cats}).Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	data := "categories:\n  - id: food\n    canonical_name: food\n    direction: both\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.ErrorIs(t, err, common.ErrInvalidDirection)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "id: food")
	assert.Contains(t, contents, "canonical_name: salary")
	assert.Contains(t, contents, "direction: income")
}
