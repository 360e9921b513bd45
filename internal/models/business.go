package models

type Business struct {
	BaseModel
	Name    string `gorm:"not null" json:"name"`
	OwnerID string `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`

	// Staff emails must belong to this domain.
	Domain string `gorm:"not null" json:"domain"`

	// Relations
	Staff []User `gorm:"foreignKey:BusinessID" json:"staff,omitempty"`
}
