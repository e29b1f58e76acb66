package model

// Product is one catalog entry. Quantity is the denormalized on-hand count and only moves
// through stock receipts (+) and sales (-).
type Product struct {
	BaseModel
	Category  *string `gorm:"type:varchar(64)" json:"category"`
	Model     string  `gorm:"type:varchar(128);not null;uniqueIndex:uk_product_model" json:"model"`
	Price     Money   `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	CostPrice Money   `gorm:"type:decimal(12,2);not null;default:0" json:"cost_price"`
	Quantity  int     `gorm:"not null;default:0;check:chk_product_quantity,quantity >= 0" json:"quantity"`
}

func (Product) TableName() string {
	return "product"
}

// Label renders "category - model" the way pickers show it.
func (p *Product) Label() string {
	if p.Category == nil || *p.Category == "" {
		return p.Model
	}
	return *p.Category + " - " + p.Model
}
