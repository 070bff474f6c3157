package models

import (
	"time"

	"gorm.io/gorm"

	"pharmacrm-backend/utils"
)

const (
	RoleAdmin             = "admin"
	RoleDirector          = "director"
	RoleDeputyDirector    = "deputy_director"
	RoleHeadOfOrders      = "head_of_orders"
	RoleWholesaleManager  = "wholesale_manager"
	RoleProductManager    = "product_manager"
	RoleFieldForceManager = "field_force_manager"
	RoleRegionalManager   = "regional_manager"
	RoleMedRep            = "med_rep"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"index" json:"full_name"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
	Role     string `gorm:"type:varchar(32);default:'med_rep';index" json:"role"`

	// ManagerID points at the user's direct manager in the company hierarchy.
	ManagerID *uint `gorm:"index" json:"manager_id"`
	Manager   *User `gorm:"foreignKey:ManagerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Hash the password before the row is inserted. Seed fixtures without a
// password are left alone.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Password == "" {
		return nil
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}
