package model

// SaleOrder is the append-only header of a sale.
type SaleOrder struct {
	BaseModel
	OrderNo     string          `gorm:"type:varchar(40);not null;uniqueIndex:uk_sale_order_no" json:"order_no"`
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"`
	Customer    Customer        `gorm:"foreignKey:CustomerID" json:"-"`
	TotalAmount Money           `gorm:"type:decimal(14,2);not null;default:0" json:"total_amount"`
	Items       []SaleOrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (SaleOrder) TableName() string {
	return "sale_order"
}

// SaleOrderItem is one line of a sale. UnitPrice is a snapshot.
type SaleOrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int     `gorm:"not null;check:chk_sale_item_quantity,quantity > 0" json:"quantity"`
	UnitPrice Money   `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
}

func (SaleOrderItem) TableName() string {
	return "sale_order_item"
}
