// services/reassignment_service.go
package services

import (
	"errors"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReassignmentResult struct {
	DoctorsMoved int `json:"doctors_moved"`
	OrgsMoved    int `json:"orgs_moved"`
}

// ReassignmentService transactionally shifts a med rep's whole territory to
// another rep: assigned doctors, organization links, plans, fact
// assignments, bonus payments and ledger rows. Used when an employee leaves
// or regions are restructured.
type ReassignmentService struct {
	log *logrus.Logger
}

func NewReassignmentService() *ReassignmentService {
	return &ReassignmentService{log: config.GetLogger()}
}

// Reassign moves everything owned by fromID to toID in one transaction.
// Both agents must hold the same role. The organization edge transfer
// recomputes the target's existing set before inserting, so re-running
// after a partial prior run never collides on the junction primary key:
// the whole operation is idempotent.
func (s *ReassignmentService) Reassign(db *gorm.DB, fromID, toID, actorID uint) (*ReassignmentResult, error) {
	if fromID == toID {
		return nil, ErrSameAgent
	}

	var result ReassignmentResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var from, to models.User
		if err := tx.First(&from, fromID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAgentNotFound
			}
			return err
		}
		if err := tx.First(&to, toID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAgentNotFound
			}
			return err
		}
		if from.Role != to.Role {
			return ErrRoleMismatch
		}

		// 1. Doctors: single-valued field, plain overwrite.
		res := tx.Model(&models.Doctor{}).Where("assigned_rep_id = ?", fromID).
			Update("assigned_rep_id", toID)
		if res.Error != nil {
			return res.Error
		}
		result.DoctorsMoved = int(res.RowsAffected)

		// 2. Organizations: many-to-many merge. Delete the old edges, then
		// insert only the organizations the target is not already linked to.
		var fromOrgIDs []uint
		if err := tx.Model(&models.MedRepOrganization{}).
			Where("user_id = ?", fromID).
			Pluck("organization_id", &fromOrgIDs).Error; err != nil {
			return err
		}
		result.OrgsMoved = len(fromOrgIDs)

		if len(fromOrgIDs) > 0 {
			var existing []uint
			if err := tx.Model(&models.MedRepOrganization{}).
				Where("user_id = ? AND organization_id IN ?", toID, fromOrgIDs).
				Pluck("organization_id", &existing).Error; err != nil {
				return err
			}
			existingSet := make(map[uint]struct{}, len(existing))
			for _, id := range existing {
				existingSet[id] = struct{}{}
			}

			if err := tx.Where("user_id = ? AND organization_id IN ?", fromID, fromOrgIDs).
				Delete(&models.MedRepOrganization{}).Error; err != nil {
				return err
			}

			edges := make([]models.MedRepOrganization, 0, len(fromOrgIDs))
			for _, orgID := range fromOrgIDs {
				if _, linked := existingSet[orgID]; !linked {
					edges = append(edges, models.MedRepOrganization{UserID: toID, OrganizationID: orgID})
				}
			}
			if len(edges) > 0 {
				if err := tx.Create(&edges).Error; err != nil {
					return err
				}
			}
		}

		// 3. Plans, fact assignments, bonus payments and the rep's ledger
		// rows follow the territory.
		if err := tx.Model(&models.Plan{}).Where("med_rep_id = ?", fromID).
			Update("med_rep_id", toID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.DoctorFactAssignment{}).Where("med_rep_id = ?", fromID).
			Update("med_rep_id", toID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BonusPayment{}).Where("med_rep_id = ?", fromID).
			Update("med_rep_id", toID).Error; err != nil {
			return err
		}
		return tx.Model(&models.BonusLedger{}).Where("user_id = ?", fromID).
			Update("user_id", toID).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"from_agent":    fromID,
		"to_agent":      toID,
		"actor":         actorID,
		"doctors_moved": result.DoctorsMoved,
		"orgs_moved":    result.OrgsMoved,
	}).Info("territory reassigned")
	return &result, nil
}
