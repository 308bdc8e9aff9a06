package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents the centralized authentication table
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DNI       string    `gorm:"column:dni;type:varchar(20);uniqueIndex;not null" json:"dni"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"nombre"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"apellido"`
	Role      string    `gorm:"type:varchar(20);not null;index" json:"rol"`
	Phone     *string   `gorm:"type:varchar(30)" json:"telefono,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	DoctorProfile     *DoctorProfile     `gorm:"foreignKey:UserID" json:"-"`
	PatientProfile    *PatientProfile    `gorm:"foreignKey:UserID" json:"-"`
	PharmacistProfile *PharmacistProfile `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
