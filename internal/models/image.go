package models

import "gorm.io/gorm"

// Image is the record of an accepted upload. Hash is the hex SHA-256 of the
// exact byte content; its unique index is the authoritative deduplication
// guarantee, so a concurrent duplicate insert fails the constraint instead
// of silently duplicating.
type Image struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Filename   string `json:"filename" gorm:"type:varchar(100)"`
	URL        string `json:"url" gorm:"uniqueIndex;type:varchar(512)"`
	VendorID   string `json:"vendorId" gorm:"index;type:varchar(36)"`
	Hash       string `json:"hash" gorm:"uniqueIndex;type:char(64)"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
