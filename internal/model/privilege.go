package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Warehouse management
	{Code: "warehouse:view", Name: "View Warehouse"},
	{Code: "warehouse:create", Name: "Create Warehouse"},
	{Code: "warehouse:update", Name: "Update Warehouse"},
	{Code: "warehouse:delete", Name: "Delete Warehouse"},
	// Customer management
	{Code: "customer:view", Name: "View Customer"},
	{Code: "customer:create", Name: "Create Customer"},
	{Code: "customer:update", Name: "Update Customer"},
	{Code: "customer:delete", Name: "Delete Customer"},
	// Batch management
	{Code: "batch:view", Name: "View Batch"},
	{Code: "batch:create", Name: "Create Batch"},
	{Code: "batch:delete", Name: "Delete Batch"},
	// Stock movements
	{Code: "movement:view", Name: "View Stock Movement"},
	{Code: "movement:create", Name: "Create Stock Movement"},
	// Sales invoicing
	{Code: "invoice:view", Name: "View Sales Invoice"},
	{Code: "invoice:create", Name: "Create Sales Invoice"},
	// Alerts
	{Code: "alert:view", Name: "View Alert"},
	{Code: "alert:create", Name: "Create Alert"},
	{Code: "alert:update", Name: "Update Alert"},
	{Code: "alert:delete", Name: "Delete Alert"},
	// Reports
	{Code: "report:view", Name: "View Report"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
