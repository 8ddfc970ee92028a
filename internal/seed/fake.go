package seed

import (
	"fmt"
	"math"
	"math/rand"

	"bolpur-mart/internal/model"

	"github.com/jaswdr/faker"
)

// FakeProducts generates n products spread over categories. The same seed
// yields the same products.
func FakeProducts(n int, categories []model.Category, seed int64) []model.Product {
	if n <= 0 || len(categories) == 0 {
		return nil
	}

	f := faker.NewWithSeed(rand.NewSource(seed))
	products := make([]model.Product, 0, n)
	for i := range n {
		cat := categories[i%len(categories)]
		price := float64(f.IntBetween(1000, 50000)) / 100

		p := model.Product{
			ID:            fmt.Sprintf("fake-%05d", i+1),
			Name:          f.Food().Fruit() + " " + f.Lorem().Word(),
			Description:   f.Lorem().Sentence(8),
			Categories:    []model.CategoryRef{{ID: cat.ID, Name: cat.Name}},
			Price:         price,
			Stock:         f.IntBetween(0, 200),
			Tags:          f.Lorem().Words(2),
			Available:     f.IntBetween(0, 9) > 0,
			ImageURL:      f.Internet().URL(),
			AverageRating: float64(f.IntBetween(10, 50)) / 10,
			TotalRatings:  f.IntBetween(0, 500),
		}

		if f.Bool() {
			pct := float64(f.IntBetween(5, 40))
			discounted := math.Round(price*(100-pct)) / 100
			p.HasDiscount = true
			p.DiscountPercentage = &pct
			p.DiscountedPrice = &discounted
		}
		products = append(products, p)
	}
	return products
}
