package usecase

import (
	"context"
	"testing"

	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestCreateMedication(t *testing.T) {
	app := newTestApp(t)

	negative := decimal.NewFromInt(-1)
	_, err := app.medications.Create(context.Background(), &dto.CreateMedicationRequest{Name: "X", Stock: intPtr(1), Price: &negative})
	require.ErrorIs(t, err, ErrInvalidPrice)

	expectCommit(app.mock)
	resp, err := app.medications.Create(context.Background(), &dto.CreateMedicationRequest{Name: "Paracetamol", Stock: intPtr(20)})
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol", resp.Name)
	assert.True(t, resp.Price.IsZero())

	price := decimal.RequireFromString("12.50")
	expectCommit(app.mock)
	resp, err = app.medications.Create(context.Background(), &dto.CreateMedicationRequest{Name: "Omeprazol", Stock: intPtr(0), Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(resp.Price))
	assert.Equal(t, []string{entity.AuditActionMedicationCreate, entity.AuditActionMedicationCreate}, app.store.auditActions())
}

func TestGetMedications_SearchAndPaging(t *testing.T) {
	app := newTestApp(t)
	app.seedMedication("Amoxicilina", 1)
	app.seedMedication("Ibuprofeno 400", 1)
	app.seedMedication("Ibuprofeno 600", 1)

	found, total, err := app.medications.GetAll(context.Background(), 1, 10, "ibuprofeno")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)

	page, total, err := app.medications.GetAll(context.Background(), 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "Ibuprofeno 600", page[0].Name)
}

func TestUpdateMedication(t *testing.T) {
	app := newTestApp(t)
	m := app.seedMedication("Amoxicilina", 1)

	expectCommit(app.mock)
	resp, err := app.medications.Update(context.Background(), m.ID, &dto.UpdateMedicationRequest{Stock: intPtr(40)})
	require.NoError(t, err)
	assert.Equal(t, 40, resp.Stock)
	assert.Equal(t, "Amoxicilina", resp.Name)

	expectRollback(app.mock)
	_, err = app.medications.Update(context.Background(), uuid.New(), &dto.UpdateMedicationRequest{Stock: intPtr(1)})
	require.ErrorIs(t, err, ErrMedicationNotFound)
}

func TestDeleteMedication_InUse(t *testing.T) {
	f := newPrescriptionFixture(t)
	f.create(t)
	unused := f.app.seedMedication("Loratadina", 3)

	expectRollback(f.app.mock)
	require.ErrorIs(t, f.app.medications.Delete(context.Background(), f.ibuprofeno.ID), ErrMedicationInUse)

	expectCommit(f.app.mock)
	require.NoError(t, f.app.medications.Delete(context.Background(), unused.ID))

	_, err := f.app.medications.GetByID(context.Background(), unused.ID)
	require.ErrorIs(t, err, ErrMedicationNotFound)
}

func TestAuditLogs(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(entity.RoleAdmin, "1")
	pharmacist := app.seedUser(entity.RolePharmacist, "2")

	expectCommit(app.mock)
	created, err := app.medications.Create(asUser(admin), &dto.CreateMedicationRequest{Name: "Paracetamol", Stock: intPtr(1)})
	require.NoError(t, err)
	expectCommit(app.mock)
	_, err = app.medications.Update(asUser(pharmacist), created.ID, &dto.UpdateMedicationRequest{Stock: intPtr(4)})
	require.NoError(t, err)

	logs, total, err := app.auditLogs.GetAllAuditLogs(context.Background(), &dto.AuditLogListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)

	byPharmacist, total, err := app.auditLogs.GetAllAuditLogs(context.Background(), &dto.AuditLogListQuery{UserID: pharmacist.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entity.AuditActionMedicationUpdate, byPharmacist[0].Action)

	_, total, err = app.auditLogs.GetAllAuditLogs(context.Background(), &dto.AuditLogListQuery{Action: "prescription."})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = app.auditLogs.GetAllAuditLogs(context.Background(), &dto.AuditLogListQuery{UserID: "nope"})
	require.ErrorIs(t, err, ErrInvalidUserID)

	one, err := app.auditLogs.GetAuditLog(context.Background(), logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, logs[0].Action, one.Action)

	_, err = app.auditLogs.GetAuditLog(context.Background(), 999)
	require.ErrorIs(t, err, ErrAuditLogNotFound)
}
