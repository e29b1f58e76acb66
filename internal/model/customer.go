package model

type Customer struct {
	BaseModel
	Name    string  `gorm:"type:varchar(128);not null;index" json:"name"`
	Phone   *string `gorm:"type:varchar(32)" json:"phone"`
	Address *string `gorm:"type:varchar(255)" json:"address"`
	Note    *string `gorm:"type:text" json:"note"`
}

func (Customer) TableName() string {
	return "customer"
}
