package model

type Warehouse struct {
	BaseModel
	Code      string `gorm:"type:varchar(20);uniqueIndex;not null" json:"code" validate:"required"`
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address   string `gorm:"type:text" json:"address"`
	City      string `gorm:"type:varchar(100)" json:"city"`
	State     string `gorm:"type:varchar(100)" json:"state"`
	StateCode string `gorm:"type:varchar(5)" json:"state_code"`
	Pincode   string `gorm:"type:varchar(10)" json:"pincode"`
	Phone     string `gorm:"type:varchar(20)" json:"phone"`
}
