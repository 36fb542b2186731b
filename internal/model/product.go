package model

import "time"

// ProductCategory は商品カテゴリ。
type ProductCategory string

const (
	CategoryElectronics ProductCategory = "Electronics"
	CategoryClothing    ProductCategory = "Clothing"
	CategoryBooks       ProductCategory = "Books"
	CategoryHome        ProductCategory = "Home"
	CategoryOther       ProductCategory = "Other"
)

// Valid はカテゴリが定義済みの値かどうかを返す。
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome, CategoryOther:
		return true
	default:
		return false
	}
}

// Product は商品を表す。
type Product struct {
	ID        string
	Name      string
	Price     float64
	Category  ProductCategory
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
