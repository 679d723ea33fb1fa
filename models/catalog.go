package models

// Catalog rows are what residents file requests against. Plain CRUD,
// administered per barangay; not part of the workflow engine.

type Barangay struct {
	Id   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;unique"`
	City string `json:"city" gorm:"not null"`
}

// Item is a loanable asset (tent, sound system, wheelchair, ...).
type Item struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	BarangayID  uint   `json:"barangay_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// Benefit is an aid program residents may apply to.
type Benefit struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	BarangayID  uint   `json:"barangay_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// DocumentType is an issuable document (clearance, indigency certificate, ...).
type DocumentType struct {
	Id          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;unique"`
	Description string  `json:"description"`
	Fee         float64 `json:"fee" gorm:"type:numeric(12,2)"`
	Active      bool    `json:"active"`
}
