package model

// Maintenance is a service log entry. The product reference is optional.
type Maintenance struct {
	BaseModel
	CustomerID uint     `gorm:"not null;index" json:"customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID" json:"-"`
	ProductID  *uint    `gorm:"index" json:"product_id"`
	Product    *Product `gorm:"foreignKey:ProductID" json:"-"`
	Content    *string  `gorm:"type:text" json:"content"`
	Result     *string  `gorm:"type:text" json:"result"`
}

func (Maintenance) TableName() string {
	return "maintenance"
}
