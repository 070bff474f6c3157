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

// Seeds a doctor with one posted accrual: quantity 4 of a product with a
// per-unit allowance of 25, so the accrual is worth 100.
func accrualFixture(t *testing.T, db *gorm.DB) (models.Doctor, models.Product, models.BonusLedger) {
	t.Helper()
	actor := seedUser(t, db, "orders", models.RoleHeadOfOrders)
	product := seedProduct(t, db, "Mezym", "200", "25")
	warehouse := seedWarehouse(t, db, "Central")
	seedStock(t, db, warehouse.ID, product.ID, 100)

	doctor := models.Doctor{FullName: "Dr. Rashidov"}
	require.NoError(t, db.Create(&doctor).Error)

	resSvc := services.NewReservationService()
	reservation, err := resSvc.Create(db, services.CreateReservationInput{
		WarehouseID:  warehouse.ID,
		CustomerName: "Yunusobod Pharmacy",
		Items: []services.ReservationItemInput{
			{ProductID: product.ID, Quantity: 4, Price: dec(t, "200")},
		},
	}, actor.ID)
	require.NoError(t, err)
	invoice, err := resSvc.Confirm(db, reservation.ID)
	require.NoError(t, err)

	_, err = services.NewBillingService().RecordPayment(db, services.PaymentInput{
		InvoiceID:         invoice.ID,
		Amount:            dec(t, "800"),
		AllocatedDoctorID: &doctor.ID,
	}, actor.ID)
	require.NoError(t, err)

	var entry models.BonusLedger
	require.NoError(t, db.Where("ledger_type = ?", models.LedgerAccrual).First(&entry).Error)
	return doctor, product, entry
}

func TestReverseAccrual_BacksOutLedgerAndStat(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewBonusService()
	doctor, product, entry := accrualFixture(t, db)

	reversal, err := svc.ReverseAccrual(db, entry.ID, "mistaken allocation")
	require.NoError(t, err)
	assert.Equal(t, models.LedgerReversal, reversal.LedgerType)
	assert.True(t, entry.Amount.Neg().Equal(reversal.Amount))
	assert.Equal(t, entry.InvoiceItemID, reversal.InvoiceItemID)

	// The original accrual row is untouched.
	var original models.BonusLedger
	require.NoError(t, db.First(&original, entry.ID).Error)
	assert.Equal(t, models.LedgerAccrual, original.LedgerType)
	assert.True(t, entry.Amount.Equal(original.Amount))

	// Ledger balance and cached counters both land back on zero.
	balance, err := svc.DoctorBalance(db, doctor.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "balance %s", balance)

	var stat models.DoctorMonthlyStat
	require.NoError(t, db.Where("doctor_id = ? AND product_id = ?", doctor.ID, product.ID).
		First(&stat).Error)
	assert.Zero(t, stat.PaidQuantity)
	assert.True(t, stat.PaidAmount.IsZero())
	assert.True(t, stat.BonusAmount.IsZero())
}

// A reversal posted in a later month than its accrual reduces that later
// month, and in both months the cached counters match a ledger replay.
func TestReverseAccrual_CrossMonthAttribution(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewBonusService()
	doctor, product, entry := accrualFixture(t, db)

	now := time.Now()
	prev := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	// Shift the accrual and its counter row back a month, as if the sale
	// had been paid then.
	require.NoError(t, db.Model(&models.BonusLedger{}).Where("id = ?", entry.ID).
		Update("created_at", prev).Error)
	require.NoError(t, db.Model(&models.DoctorMonthlyStat{}).
		Where("doctor_id = ? AND product_id = ?", doctor.ID, product.ID).
		Updates(map[string]interface{}{"month": int(prev.Month()), "year": prev.Year()}).Error)

	_, err := svc.ReverseAccrual(db, entry.ID, "returned goods")
	require.NoError(t, err)

	// The accrual month keeps its +100; the reversal lands on the current
	// month as -100.
	var prevStat models.DoctorMonthlyStat
	require.NoError(t, db.Where("doctor_id = ? AND product_id = ? AND month = ? AND year = ?",
		doctor.ID, product.ID, int(prev.Month()), prev.Year()).First(&prevStat).Error)
	assert.True(t, dec(t, "100").Equal(prevStat.BonusAmount))
	assert.Equal(t, 4, prevStat.PaidQuantity)

	var curStat models.DoctorMonthlyStat
	require.NoError(t, db.Where("doctor_id = ? AND product_id = ? AND month = ? AND year = ?",
		doctor.ID, product.ID, int(now.Month()), now.Year()).First(&curStat).Error)
	assert.True(t, dec(t, "-100").Equal(curStat.BonusAmount))
	assert.Equal(t, -4, curStat.PaidQuantity)

	// Replaying either month reproduces the cache exactly, so the nightly
	// repair sweep leaves both rows as they are.
	prevTotal, err := svc.RebuildMonthlyStat(db, doctor.ID, product.ID, int(prev.Month()), prev.Year())
	require.NoError(t, err)
	assert.True(t, dec(t, "100").Equal(prevTotal), "replayed %s", prevTotal)

	curTotal, err := svc.RebuildMonthlyStat(db, doctor.ID, product.ID, int(now.Month()), now.Year())
	require.NoError(t, err)
	assert.True(t, dec(t, "-100").Equal(curTotal), "replayed %s", curTotal)

	balance, err := svc.DoctorBalance(db, doctor.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "balance %s", balance)
}

func TestReverseAccrual_OnlyAccrualsReversible(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewBonusService()
	_, _, entry := accrualFixture(t, db)

	reversal, err := svc.ReverseAccrual(db, entry.ID, "first")
	require.NoError(t, err)

	// Reversals themselves cannot be reversed.
	_, err = svc.ReverseAccrual(db, reversal.ID, "second")
	assert.ErrorIs(t, err, services.ErrNotAccrualEntry)

	_, err = svc.ReverseAccrual(db, 4242, "missing")
	assert.ErrorIs(t, err, services.ErrLedgerEntryNotFound)
}

func TestRecordPayout_LedgerAndReportingRow(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewBonusService()
	doctor, _, _ := accrualFixture(t, db)
	rep := seedUser(t, db, "rep", models.RoleMedRep)

	now := time.Now()
	payout, err := svc.RecordPayout(db, services.BonusPayoutInput{
		MedRepID: rep.ID,
		DoctorID: &doctor.ID,
		Amount:   dec(t, "60"),
		ForMonth: int(now.Month()),
		ForYear:  now.Year(),
		Notes:    "monthly settlement",
	})
	require.NoError(t, err)
	assert.False(t, payout.PaidDate.IsZero())

	// Accrual 100 minus payout 60.
	doctorBalance, err := svc.DoctorBalance(db, doctor.ID)
	require.NoError(t, err)
	assert.True(t, dec(t, "40").Equal(doctorBalance), "balance %s", doctorBalance)

	// The disbursing rep carries the debit on their own side of the ledger.
	repBalance, err := svc.UserBalance(db, rep.ID)
	require.NoError(t, err)
	assert.True(t, dec(t, "-60").Equal(repBalance), "balance %s", repBalance)

	var entry models.BonusLedger
	require.NoError(t, db.Where("ledger_type = ?", models.LedgerPayout).First(&entry).Error)
	assert.True(t, dec(t, "-60").Equal(entry.Amount))
	require.NotNil(t, entry.UserID)
	assert.Equal(t, rep.ID, *entry.UserID)
}

func TestRecordPayout_RejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	rep := seedUser(t, db, "rep", models.RoleMedRep)

	_, err := services.NewBonusService().RecordPayout(db, services.BonusPayoutInput{
		MedRepID: rep.ID,
		Amount:   dec(t, "0"),
		ForMonth: 3,
		ForYear:  2026,
	})
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
}

// The monthly counters are a cache over the ledger. Corrupt the cache and
// the rebuild must restore the replayed sum exactly.
func TestRebuildMonthlyStat_RepairsDrift(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewBonusService()
	doctor, product, entry := accrualFixture(t, db)

	now := entry.CreatedAt
	month, year := int(now.Month()), now.Year()

	// Inject drift directly into the cached row.
	require.NoError(t, db.Model(&models.DoctorMonthlyStat{}).
		Where("doctor_id = ? AND product_id = ? AND month = ? AND year = ?",
			doctor.ID, product.ID, month, year).
		Update("bonus_amount", dec(t, "9999")).Error)

	total, err := svc.RebuildMonthlyStat(db, doctor.ID, product.ID, month, year)
	require.NoError(t, err)
	assert.True(t, dec(t, "100").Equal(total), "replayed %s", total)

	var stat models.DoctorMonthlyStat
	require.NoError(t, db.Where("doctor_id = ? AND product_id = ?", doctor.ID, product.ID).
		First(&stat).Error)
	assert.True(t, dec(t, "100").Equal(stat.BonusAmount))
}

// After a reversal the replayed sum is zero, whatever the cache said.
func TestRebuildMonthlyStat_ReplaysReversals(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewBonusService()
	doctor, product, entry := accrualFixture(t, db)

	_, err := svc.ReverseAccrual(db, entry.ID, "returned goods")
	require.NoError(t, err)

	month, year := int(entry.CreatedAt.Month()), entry.CreatedAt.Year()
	total, err := svc.RebuildMonthlyStat(db, doctor.ID, product.ID, month, year)
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "replayed %s", total)
}

// Rebuilding a key with no ledger history writes a zero row rather than
// failing, so the repair sweep can touch any key safely.
func TestRebuildMonthlyStat_EmptyKey(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewBonusService()

	doctor := models.Doctor{FullName: "Dr. Yusupova"}
	require.NoError(t, db.Create(&doctor).Error)
	product := seedProduct(t, db, "Validol", "10", "1")

	total, err := svc.RebuildMonthlyStat(db, doctor.ID, product.ID, 1, 2026)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	var stat models.DoctorMonthlyStat
	require.NoError(t, db.Where("doctor_id = ? AND product_id = ? AND month = 1 AND year = 2026",
		doctor.ID, product.ID).First(&stat).Error)
	assert.True(t, stat.BonusAmount.IsZero())
}
