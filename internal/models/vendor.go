package models

import "gorm.io/gorm"

// Vendor links a vendor account to its storefront details. Created alongside
// the user when an account signs up with the vendor role.
type Vendor struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CompanyName string `json:"companyName" gorm:"type:varchar(200)"`
	UserID      string `json:"userId" gorm:"uniqueIndex;type:varchar(36)"`
	gorm.Model
}

// StaffAssignment links a staff account to the vendor it works for, if any.
type StaffAssignment struct {
	ID               string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string `json:"userId" gorm:"uniqueIndex;type:varchar(36)"`
	AssignedVendorID string `json:"assignedVendorId" gorm:"index;type:varchar(36)"`
	gorm.Model
}
