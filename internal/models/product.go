package models

import "time"

// DateTimeLayout is the layout of every timestamp accepted or returned by the API.
const DateTimeLayout = "2006-01-02 15:04:05"

// FeaturedRatingThreshold is the rating above which a product is always featured.
const FeaturedRatingThreshold = 8.0

// Product represents a product in the catalog.
type Product struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Name           string     `json:"name" gorm:"size:50;not null" validate:"min=1,max=50"`
	Rating         float64    `json:"rating" gorm:"not null"`
	Featured       bool       `json:"featured" gorm:"not null;default:false"`
	CreatedAt      time.Time  `json:"created_at" gorm:"not null"`
	ExpirationDate *time.Time `json:"expiration_date"`
	BrandID        uint       `json:"brand_id" gorm:"not null;index" validate:"required"`
	Brand          Brand      `json:"brand" validate:"-"`
	Categories     []Category `json:"categories" gorm:"many2many:products_categories;" validate:"-"`
	ItemsInStock   int        `json:"items_in_stock" gorm:"not null" validate:"gte=0"`
	ReceiptDate    *time.Time `json:"receipt_date"`
}

// ApplyFeaturedRule promotes the product to featured when its rating is high enough.
// It never demotes.
func (p *Product) ApplyFeaturedRule() {
	if p.Rating > FeaturedRatingThreshold {
		p.Featured = true
	}
}

// ProductResponse is the serialized form of a Product.
type ProductResponse struct {
	ID             uint               `json:"id"`
	Name           string             `json:"name"`
	Rating         float64            `json:"rating"`
	Featured       bool               `json:"featured"`
	ItemsInStock   int                `json:"items_in_stock"`
	ReceiptDate    *string            `json:"receipt_date"`
	Brand          BrandResponse      `json:"brand"`
	Categories     []CategoryResponse `json:"categories"`
	ExpirationDate *string            `json:"expiration_date"`
	CreatedAt      string             `json:"created_at"`
}

// Serialized renders the product with its brand and categories nested.
// Brand and Categories must be preloaded.
func (p Product) Serialized() ProductResponse {
	categories := make([]CategoryResponse, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, c.Serialized())
	}
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Rating:         p.Rating,
		Featured:       p.Featured,
		ItemsInStock:   p.ItemsInStock,
		ReceiptDate:    FormatDateTime(p.ReceiptDate),
		Brand:          p.Brand.Serialized(),
		Categories:     categories,
		ExpirationDate: FormatDateTime(p.ExpirationDate),
		CreatedAt:      p.CreatedAt.UTC().Format(DateTimeLayout),
	}
}

// FormatDateTime formats an optional timestamp, keeping nil as nil.
func FormatDateTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateTimeLayout)
	return &s
}

// ParseDateTime parses a timestamp in DateTimeLayout as UTC.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, time.UTC)
}
