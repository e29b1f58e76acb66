package model

// StockIn is an append-only receiving record. CostPrice is a snapshot taken at receipt time.
type StockIn struct {
	BaseModel
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int     `gorm:"not null;check:chk_stock_in_quantity,quantity > 0" json:"quantity"`
	CostPrice Money   `gorm:"type:decimal(12,2);not null;default:0" json:"cost_price"`
	Note      *string `gorm:"type:varchar(255)" json:"note"`
}

func (StockIn) TableName() string {
	return "stock_in"
}
