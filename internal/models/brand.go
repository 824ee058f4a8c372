package models

// Brand represents the manufacturer of a product.
type Brand struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50;not null" validate:"min=1,max=50"`
	CountryCode string    `json:"country_code" gorm:"size:2;not null" validate:"min=1,max=2"`
	Products    []Product `json:"-"`
}

// BrandResponse is the serialized form of a Brand.
type BrandResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

func (b Brand) Serialized() BrandResponse {
	return BrandResponse{ID: b.ID, Name: b.Name, CountryCode: b.CountryCode}
}
