package model

import "time"

// CategoryRef is the lightweight category reference embedded in products and time rules.
type CategoryRef struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Name string `json:"name" yaml:"name" mapstructure:"name"`
}

// Category represents a catalogue category.
type Category struct {
	ID          string    `json:"id" db:"id" yaml:"id"`
	Name        string    `json:"name" db:"name" yaml:"name"`
	Description string    `json:"description" db:"description" yaml:"description"`
	IsActive    bool      `json:"isActive" db:"is_active" yaml:"isActive"`
	SortOrder   int       `json:"sortOrder" db:"sort_order" yaml:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at" yaml:"-"`
}

// Product represents a product in the catalogue.
type Product struct {
	ID                 string        `json:"id" db:"id" yaml:"id"`
	Name               string        `json:"name" db:"name" yaml:"name"`
	Description        string        `json:"description" db:"description" yaml:"description"`
	Categories         []CategoryRef `json:"categories" db:"categories" yaml:"categories"`
	Price              float64       `json:"price" db:"price" yaml:"price"`
	DiscountedPrice    *float64      `json:"discountedPrice,omitempty" db:"discounted_price" yaml:"discountedPrice,omitempty"`
	DiscountPercentage *float64      `json:"discountPercentage,omitempty" db:"discount_percentage" yaml:"discountPercentage,omitempty"`
	HasDiscount        bool          `json:"hasDiscount" db:"has_discount" yaml:"hasDiscount"`
	Stock              int           `json:"stock" db:"stock" yaml:"stock"`
	Tags               []string      `json:"tags" db:"tags" yaml:"tags"`
	Available          bool          `json:"available" db:"available" yaml:"available"`
	ImageURL           string        `json:"imageUrl,omitempty" db:"image_url" yaml:"imageUrl,omitempty"`
	AverageRating      float64       `json:"averageRating" db:"average_rating" yaml:"averageRating"`
	TotalRatings       int           `json:"totalRatings" db:"total_ratings" yaml:"totalRatings"`
	CreatedAt          time.Time     `json:"createdAt" db:"created_at" yaml:"-"`
	UpdatedAt          time.Time     `json:"updatedAt" db:"updated_at" yaml:"-"`
}

// EffectivePrice returns the discounted price when the product carries a discount,
// otherwise the list price.
func (p *Product) EffectivePrice() float64 {
	if p.HasDiscount && p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// CategoryIDs returns the ids of the categories attached to the product.
func (p *Product) CategoryIDs() []string {
	ids := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}
