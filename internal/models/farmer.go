// internal/models/farmer.go
package models

import (
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Farmer struct {
	BaseModel
	Name         string         `json:"name" gorm:"size:255;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password     string         `json:"-" gorm:"size:255;not null"`
	AadharNumber string         `json:"aadharNumber" gorm:"uniqueIndex;size:12;not null"`
	Location     string         `json:"location" gorm:"size:255"`
	Description  string         `json:"description" gorm:"type:text"`
	Image        string         `json:"image" gorm:"type:text"`
	Specialties  pq.StringArray `json:"specialties" gorm:"type:text[]"`
	IsVerified   bool           `json:"isVerified" gorm:"not null"`

	// Relationships
	Products []Product `json:"products" gorm:"foreignKey:FarmerID"`
}

func (f *Farmer) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	f.Password = string(hashedPassword)
	return nil
}

func (f *Farmer) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(f.Password), []byte(password))
}

// AfterFind runs after preloads, so attached products can carry the farmer name.
func (f *Farmer) AfterFind(tx *gorm.DB) error {
	f.normalize()
	return nil
}

func (f *Farmer) normalize() {
	if f.Specialties == nil {
		f.Specialties = pq.StringArray{}
	}
	if f.Products == nil {
		f.Products = []Product{}
	}
	for i := range f.Products {
		f.Products[i].FarmerName = f.Name
	}
}
