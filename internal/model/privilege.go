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
	// Branch management
	{Code: "branch:view", Name: "View Branch"},
	{Code: "branch:create", Name: "Create Branch"},
	{Code: "branch:update", Name: "Update Branch"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Sales
	{Code: "sale:view", Name: "View Sale"},
	{Code: "sale:create", Name: "Create Sale"},
	// Stock adjustments
	{Code: "adjustment:view", Name: "View Stock Adjustment"},
	{Code: "adjustment:create", Name: "Create Stock Adjustment"},
	// Expenses
	{Code: "expense:view", Name: "View Expense"},
	{Code: "expense:create", Name: "Create Expense"},
	{Code: "expense:update", Name: "Update Expense"},
	{Code: "expense:delete", Name: "Delete Expense"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
