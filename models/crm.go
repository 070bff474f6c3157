package models

import "time"

const (
	OrgTypeClinic   = "clinic"
	OrgTypePharmacy = "pharmacy"
	OrgTypeHospital = "hospital"
)

type Region struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type DoctorSpecialty struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type DoctorCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type MedicalOrganization struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"index;not null" json:"name"`
	Address      string `json:"address"`
	RegionID     *uint  `json:"region_id"`
	OrgType      string `gorm:"default:'clinic'" json:"org_type"`
	Brand        string `json:"brand"`
	DirectorName string `json:"director_name"`
	ContactPhone string `json:"contact_phone"`

	Region  *Region  `gorm:"foreignKey:RegionID" json:"-"`
	Doctors []Doctor `gorm:"foreignKey:MedOrgID" json:"-"`
}

// MedRepOrganization is the med-rep to organization assignment edge.
// (user_id, organization_id) is the primary key, so an organization can be
// linked to a rep at most once.
type MedRepOrganization struct {
	UserID         uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	OrganizationID uint `gorm:"primaryKey;autoIncrement:false" json:"organization_id"`
}

func (MedRepOrganization) TableName() string { return "medrep_organizations" }

type Doctor struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"index;not null" json:"full_name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Contact1  string     `json:"contact1"`
	Contact2  string     `json:"contact2"`
	Email     string     `json:"email"`
	BirthDate *time.Time `json:"birth_date"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Address   string     `json:"address"`

	RegionID    *uint `json:"region_id"`
	SpecialtyID *uint `json:"specialty_id"`
	CategoryID  *uint `json:"category_id"`
	MedOrgID    *uint `json:"med_org_id"`

	// One doctor is managed by one med rep, shifted transactionally on
	// territory reassignment.
	AssignedRepID *uint `gorm:"index" json:"assigned_rep_id"`
	AssignedRep   *User `gorm:"foreignKey:AssignedRepID" json:"-"`
}

type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Topic       string    `gorm:"not null" json:"topic"`
	Message     string    `gorm:"not null" json:"message"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Status      string    `gorm:"default:'unread'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	RelatedEntityType string `json:"related_entity_type"`
	RelatedEntityName string `json:"related_entity_name"`
}
