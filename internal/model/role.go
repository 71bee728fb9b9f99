package model

// Role groups privileges for assignment to users
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MASTER_ADMIN, ADMIN, WAREHOUSE_STAFF
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleMasterAdmin    = "MASTER_ADMIN"
	RoleAdmin          = "ADMIN"
	RoleWarehouseStaff = "WAREHOUSE_STAFF"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Administrative access excluding user management",
	},
	{
		Code:        RoleWarehouseStaff,
		Name:        "Warehouse Staff",
		Description: "Stock operations only: products, batches and movements",
	},
}

// WarehouseStaffPrivilegeCodes lists the privileges granted to the
// WAREHOUSE_STAFF role at seed time. Invoicing, reporting and user
// management stay out of this role.
var WarehouseStaffPrivilegeCodes = []string{
	"product:view",
	"warehouse:view",
	"batch:view", "batch:create", "batch:delete",
	"movement:view", "movement:create",
	"alert:view",
	"dashboard:view",
}
