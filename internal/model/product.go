package model

type Product struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Price       int64  `gorm:"not null;default:0" json:"price"` // smallest currency unit
	Stock       int    `gorm:"not null;default:0;check:chk_products_stock_non_negative,stock >= 0" json:"stock"`
	Category    string `gorm:"type:varchar(100);index" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:varchar(512)" json:"imageUrl"`
	IsActive    bool   `gorm:"not null;default:true" json:"isActive"`
}

// LowStockThreshold marks products that should be restocked soon.
const LowStockThreshold = 10
