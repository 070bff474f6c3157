package services_test

import (
	"testing"
	"time"

	"pharmacrm-backend/models"
	"pharmacrm-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDoctorFor(t *testing.T, db *gorm.DB, name string, repID uint) models.Doctor {
	t.Helper()
	doctor := models.Doctor{FullName: name, AssignedRepID: &repID}
	require.NoError(t, db.Create(&doctor).Error)
	return doctor
}

func seedOrg(t *testing.T, db *gorm.DB, name string) models.MedicalOrganization {
	t.Helper()
	org := models.MedicalOrganization{Name: name}
	require.NoError(t, db.Create(&org).Error)
	return org
}

func linkOrg(t *testing.T, db *gorm.DB, userID, orgID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.MedRepOrganization{UserID: userID, OrganizationID: orgID}).Error)
}

func orgIDsOf(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.MedRepOrganization{}).
		Where("user_id = ?", userID).Order("organization_id").
		Pluck("organization_id", &ids).Error)
	return ids
}

// Agent A owns three doctors and orgs {10, 20}; agent B already covers
// org 20. The transfer unions the org sets without a duplicate edge.
func TestReassign_MergesTerritory(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewReassignmentService()

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	agentA := seedUser(t, db, "agent_a", models.RoleMedRep)
	agentB := seedUser(t, db, "agent_b", models.RoleMedRep)

	seedDoctorFor(t, db, "Dr. One", agentA.ID)
	seedDoctorFor(t, db, "Dr. Two", agentA.ID)
	seedDoctorFor(t, db, "Dr. Three", agentA.ID)
	keeper := seedDoctorFor(t, db, "Dr. Keeper", agentB.ID)

	orgTen := seedOrg(t, db, "Clinic Ten")
	orgTwenty := seedOrg(t, db, "Clinic Twenty")
	linkOrg(t, db, agentA.ID, orgTen.ID)
	linkOrg(t, db, agentA.ID, orgTwenty.ID)
	linkOrg(t, db, agentB.ID, orgTwenty.ID)

	result, err := svc.Reassign(db, agentA.ID, agentB.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DoctorsMoved)
	assert.Equal(t, 2, result.OrgsMoved)

	var doctorsOfB int64
	require.NoError(t, db.Model(&models.Doctor{}).
		Where("assigned_rep_id = ?", agentB.ID).Count(&doctorsOfB).Error)
	assert.EqualValues(t, 4, doctorsOfB) // three moved plus the keeper

	var reloadedKeeper models.Doctor
	require.NoError(t, db.First(&reloadedKeeper, keeper.ID).Error)
	require.NotNil(t, reloadedKeeper.AssignedRepID)
	assert.Equal(t, agentB.ID, *reloadedKeeper.AssignedRepID)

	assert.Empty(t, orgIDsOf(t, db, agentA.ID))
	assert.Equal(t, []uint{orgTen.ID, orgTwenty.ID}, orgIDsOf(t, db, agentB.ID))
}

func TestReassign_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewReassignmentService()

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	agentA := seedUser(t, db, "agent_a", models.RoleMedRep)
	agentB := seedUser(t, db, "agent_b", models.RoleMedRep)

	seedDoctorFor(t, db, "Dr. One", agentA.ID)
	org := seedOrg(t, db, "Clinic")
	linkOrg(t, db, agentA.ID, org.ID)

	first, err := svc.Reassign(db, agentA.ID, agentB.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.DoctorsMoved)
	assert.Equal(t, 1, first.OrgsMoved)

	// Second run finds nothing left to move and changes nothing.
	second, err := svc.Reassign(db, agentA.ID, agentB.ID, admin.ID)
	require.NoError(t, err)
	assert.Zero(t, second.DoctorsMoved)
	assert.Zero(t, second.OrgsMoved)

	assert.Equal(t, []uint{org.ID}, orgIDsOf(t, db, agentB.ID))
}

func TestReassign_MovesPlansFactsAndLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewReassignmentService()

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	agentA := seedUser(t, db, "agent_a", models.RoleMedRep)
	agentB := seedUser(t, db, "agent_b", models.RoleMedRep)
	doctor := seedDoctorFor(t, db, "Dr. One", agentA.ID)
	product := seedProduct(t, db, "Aspirin", "100", "5")

	require.NoError(t, db.Create(&models.Plan{
		MedRepID: agentA.ID, ProductID: product.ID, Month: 8, Year: 2026, TargetQuantity: 50,
	}).Error)
	require.NoError(t, db.Create(&models.DoctorFactAssignment{
		MedRepID: agentA.ID, DoctorID: doctor.ID, ProductID: product.ID,
		Quantity: 10, Month: 8, Year: 2026,
	}).Error)
	require.NoError(t, db.Create(&models.BonusPayment{
		MedRepID: agentA.ID, DoctorID: &doctor.ID, Amount: dec(t, "75"),
		ForMonth: 8, ForYear: 2026, PaidDate: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&models.BonusLedger{
		UserID: &agentA.ID, Amount: dec(t, "-75"), LedgerType: models.LedgerPayout,
	}).Error)

	_, err := svc.Reassign(db, agentA.ID, agentB.ID, admin.ID)
	require.NoError(t, err)

	for _, model := range []interface{}{
		&models.Plan{}, &models.DoctorFactAssignment{}, &models.BonusPayment{},
	} {
		var remaining int64
		require.NoError(t, db.Model(model).Where("med_rep_id = ?", agentA.ID).Count(&remaining).Error)
		assert.Zero(t, remaining)
		var moved int64
		require.NoError(t, db.Model(model).Where("med_rep_id = ?", agentB.ID).Count(&moved).Error)
		assert.EqualValues(t, 1, moved)
	}

	var entry models.BonusLedger
	require.NoError(t, db.Where("ledger_type = ?", models.LedgerPayout).First(&entry).Error)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, agentB.ID, *entry.UserID)
}

func TestReassign_RoleMismatch(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewReassignmentService()

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	rep := seedUser(t, db, "rep", models.RoleMedRep)
	regional := seedUser(t, db, "regional", models.RoleRegionalManager)

	_, err := svc.Reassign(db, rep.ID, regional.ID, admin.ID)
	assert.ErrorIs(t, err, services.ErrRoleMismatch)
}

func TestReassign_SameAgent(t *testing.T) {
	db := setupTestDB(t)
	rep := seedUser(t, db, "rep", models.RoleMedRep)

	_, err := services.NewReassignmentService().Reassign(db, rep.ID, rep.ID, rep.ID)
	assert.ErrorIs(t, err, services.ErrSameAgent)
}

func TestReassign_AgentNotFound(t *testing.T) {
	db := setupTestDB(t)
	rep := seedUser(t, db, "rep", models.RoleMedRep)

	_, err := services.NewReassignmentService().Reassign(db, rep.ID, 4242, rep.ID)
	assert.ErrorIs(t, err, services.ErrAgentNotFound)

	_, err = services.NewReassignmentService().Reassign(db, 4242, rep.ID, rep.ID)
	assert.ErrorIs(t, err, services.ErrAgentNotFound)
}
