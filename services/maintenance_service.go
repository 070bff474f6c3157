// services/maintenance_service.go
package services

import (
	"time"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MaintenanceService periodically replays the bonus ledger over the current
// month's stat rows, repairing any counter drift. The ledger is always the
// writer path; the sweep only re-derives the cache.
type MaintenanceService struct {
	db    *gorm.DB
	bonus *BonusService
	log   *logrus.Logger
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{
		db:    db,
		bonus: NewBonusService(),
		log:   config.GetLogger(),
	}
}

func (s *MaintenanceService) StartScheduler() {
	c := cron.New()

	// Every night at 3 AM.
	c.AddFunc("0 3 * * *", s.RepairCurrentMonthStats)

	c.Start()
	s.log.Info("stat maintenance scheduler started")
}

func (s *MaintenanceService) RepairCurrentMonthStats() {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	var stats []models.DoctorMonthlyStat
	if err := s.db.Where("month = ? AND year = ?", month, year).Find(&stats).Error; err != nil {
		s.log.WithError(err).Error("failed to list monthly stats for repair")
		return
	}

	for _, stat := range stats {
		if _, err := s.bonus.RebuildMonthlyStat(s.db, stat.DoctorID, stat.ProductID, stat.Month, stat.Year); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"doctor_id":  stat.DoctorID,
				"product_id": stat.ProductID,
			}).Error("failed to rebuild monthly stat")
		}
	}

	s.log.WithField("rows", len(stats)).Info("monthly stat repair sweep completed")
}
