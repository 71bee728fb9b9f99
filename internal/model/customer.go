package model

type Customer struct {
	BaseModel
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	GSTIN     string `gorm:"type:varchar(15)" json:"gstin" validate:"omitempty,gstin"`
	Address   string `gorm:"type:text" json:"address"`
	City      string `gorm:"type:varchar(100)" json:"city"`
	State     string `gorm:"type:varchar(100)" json:"state"`
	StateCode string `gorm:"type:varchar(5)" json:"state_code" validate:"required"`
	Pincode   string `gorm:"type:varchar(10)" json:"pincode"`
	Phone     string `gorm:"type:varchar(20)" json:"phone"`
	Email     string `gorm:"type:varchar(255)" json:"email"`
}

// CustomerWithBusiness is a customer row plus invoice aggregates for listings.
type CustomerWithBusiness struct {
	Customer
	TotalInvoices int64   `json:"total_invoices"`
	TotalBusiness float64 `json:"total_business"`
}
