package models

import "gorm.io/gorm"

// MigrateAll creates or updates every table. Shared by main and the test
// suite so both run against the same schema.
func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Region{},
		&DoctorSpecialty{},
		&DoctorCategory{},
		&MedicalOrganization{},
		&MedRepOrganization{},
		&Doctor{},
		&Notification{},
		&Category{},
		&Manufacturer{},
		&Product{},
		&Warehouse{},
		&Stock{},
		&StockMovement{},
		&Reservation{},
		&ReservationItem{},
		&Invoice{},
		&Payment{},
		&Plan{},
		&DoctorFactAssignment{},
		&BonusPayment{},
		&BonusLedger{},
		&DoctorMonthlyStat{},
	)
}
