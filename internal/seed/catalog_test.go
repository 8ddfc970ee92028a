package seed

import (
	"bytes"
	"compress/gzip"
	"os"
	"strings"
	"testing"

	"bolpur-mart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	raw, err := os.ReadFile("testdata/catalog.yaml")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "plain yaml", input: raw},
		{name: "gzipped yaml", input: gzipBytes(t, raw)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(bytes.NewReader(tt.input))
			require.NoError(t, err)

			assert.Len(t, c.Categories, 5)
			assert.Len(t, c.Products, 6)
			assert.Len(t, c.TimeRules, 4)

			coffee := c.Products[2]
			assert.Equal(t, "cold-coffee", coffee.ID)
			assert.True(t, coffee.HasDiscount)
			require.NotNil(t, coffee.DiscountedPrice)
			assert.Equal(t, 68.0, *coffee.DiscountedPrice)
			assert.Equal(t, 68.0, coffee.EffectivePrice())

			night := c.TimeRules["night"]
			assert.Equal(t, "22:00", night.StartTime)
			assert.Equal(t, "06:00", night.EndTime)
			assert.Equal(t, 4, night.Priority)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c.Products)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader("products: [unterminated"))
	assert.Error(t, err)
}

func TestCatalog_Validate(t *testing.T) {
	base := func() *Catalog {
		return &Catalog{
			Categories: []model.Category{{ID: "snacks", Name: "Snacks"}},
			Products: []model.Product{
				{ID: "p1", Name: "Veg Chop", Price: 30, Categories: []model.CategoryRef{{ID: "snacks"}}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Catalog)
		wantErr string
	}{
		{name: "valid", mutate: func(*Catalog) {}},
		{
			name:    "duplicate category",
			mutate:  func(c *Catalog) { c.Categories = append(c.Categories, model.Category{ID: "snacks"}) },
			wantErr: "duplicate category id",
		},
		{
			name:    "product without id",
			mutate:  func(c *Catalog) { c.Products[0].ID = "" },
			wantErr: "has no id",
		},
		{
			name:    "duplicate product",
			mutate:  func(c *Catalog) { c.Products = append(c.Products, c.Products[0]) },
			wantErr: "duplicate product id",
		},
		{
			name:    "negative price",
			mutate:  func(c *Catalog) { c.Products[0].Price = -1 },
			wantErr: "negative price",
		},
		{
			name:    "unknown category",
			mutate:  func(c *Catalog) { c.Products[0].Categories = []model.CategoryRef{{ID: "meals"}} },
			wantErr: "unknown category",
		},
		{
			name: "overlapping time rules",
			mutate: func(c *Catalog) {
				c.TimeRules = model.TimeRulesConfig{
					"a": {StartTime: "06:00", EndTime: "12:00", IsActive: true},
					"b": {StartTime: "11:00", EndTime: "14:00", IsActive: true},
				}
			},
			wantErr: "invalid time rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Snacks", c.Products[0].Categories[0].Name, "category names are filled in")
		})
	}
}

func TestMerge(t *testing.T) {
	first := &Catalog{
		Categories: []model.Category{{ID: "snacks", Name: "Snacks"}},
		Products: []model.Product{
			{ID: "p1", Name: "Veg Chop", Price: 30},
			{ID: "p2", Name: "Singara", Price: 15},
		},
		TimeRules: model.TimeRulesConfig{"evening": {StartTime: "17:00", EndTime: "22:00"}},
	}
	second := &Catalog{
		Categories: []model.Category{{ID: "meals", Name: "Meals"}},
		Products:   []model.Product{{ID: "p1", Name: "Veg Chop", Price: 35}},
	}

	got := Merge(first, nil, second)

	assert.Equal(t, []string{"snacks", "meals"}, []string{got.Categories[0].ID, got.Categories[1].ID})
	require.Len(t, got.Products, 2)
	assert.Equal(t, 35.0, got.Products[0].Price, "later catalog wins")
	assert.Equal(t, "p2", got.Products[1].ID)
	assert.Contains(t, got.TimeRules, "evening", "rules kept when a later catalog has none")
}
