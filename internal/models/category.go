package models

// Category groups products. The name is unique and is what category
// resolution matches on.
type Category struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Name     string    `json:"name" gorm:"size:50;not null;uniqueIndex" validate:"min=1,max=50"`
	Products []Product `json:"-" gorm:"many2many:products_categories;"`
}

// ProductCategory is the join row linking a product to a category.
type ProductCategory struct {
	ProductID  uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (ProductCategory) TableName() string {
	return "products_categories"
}

// CategoryResponse is the serialized form of a Category.
type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (c Category) Serialized() CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

// CategoryWithProducts is a category together with the ids of its linked products.
type CategoryWithProducts struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Products []uint `json:"products"`
}

// SerializedWithProducts requires Products to be preloaded.
func (c Category) SerializedWithProducts() CategoryWithProducts {
	ids := make([]uint, 0, len(c.Products))
	for _, p := range c.Products {
		ids = append(ids, p.ID)
	}
	return CategoryWithProducts{ID: c.ID, Name: c.Name, Products: ids}
}
