package usecase

import (
	"context"
	"testing"

	"pharmacy-clinic/config"
	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"
	"pharmacy-clinic/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestRegisterPatient_ForcesPatientRoleAndHashesPassword(t *testing.T) {
	app := newTestApp(t)
	expectCommit(app.mock)

	resp, err := app.users.RegisterPatient(context.Background(), &dto.RegisterUserRequest{
		DNI:       "1",
		Email:     "a@b.c",
		Password:  "p",
		FirstName: "Ana",
		LastName:  "Diaz",
		Role:      entity.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RolePatient, resp.Role)

	stored := app.store.users[resp.ID]
	assert.NotEqual(t, "p", stored.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("p")))
	assert.Equal(t, []string{entity.AuditActionUserRegister}, app.store.auditActions())
}

func TestRegisterPatient_DuplicateDNI(t *testing.T) {
	app := newTestApp(t)
	registerPatient(t, app, "1", "p")

	expectRollback(app.mock)
	_, err := app.users.RegisterPatient(context.Background(), &dto.RegisterUserRequest{
		DNI: "1", Email: "other@b.c", Password: "x", FirstName: "B", LastName: "C",
	})
	require.ErrorIs(t, err, ErrDNIAlreadyExists)
	assert.Len(t, app.store.users, 1)
}

func TestRegisterPatient_UniqueViolationIsConflict(t *testing.T) {
	app := newTestApp(t)
	app.store.fail["user.Create"] = pgError("23505", "idx_users_dni")

	expectRollback(app.mock)
	_, err := app.users.RegisterPatient(context.Background(), &dto.RegisterUserRequest{
		DNI: "1", Email: "a@b.c", Password: "p", FirstName: "A", LastName: "B",
	})
	require.ErrorIs(t, err, ErrDNIAlreadyExists)
}

func TestRegisterSpecialUser(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(entity.RoleAdmin, "admin")
	patient := app.seedUser(entity.RolePatient, "2")
	req := &dto.RegisterSpecialUserRequest{
		DNI: "10", Email: "doc@b.c", Password: "p", FirstName: "Doc", LastName: "Tor", Role: entity.RoleDoctor,
	}

	_, err := app.users.RegisterSpecialUser(asUser(patient), req)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = app.users.RegisterSpecialUser(context.Background(), req)
	require.ErrorIs(t, err, ErrUnauthenticated)

	expectCommit(app.mock)
	resp, err := app.users.RegisterSpecialUser(asUser(admin), req)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDoctor, resp.Role)

	require.Len(t, app.store.audits, 1)
	assert.Equal(t, admin.ID, *app.store.audits[0].UserID)
}

func TestUpdateUser_OnlySelfOrAdmin(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(entity.RolePatient, "1")
	bob := app.seedUser(entity.RolePatient, "2")

	_, err := app.users.Update(asUser(alice), bob.ID, &dto.UpdateUserRequest{FirstName: strPtr("Mallory")})
	require.ErrorIs(t, err, ErrForbidden)

	expectCommit(app.mock)
	resp, err := app.users.Update(asUser(alice), alice.ID, &dto.UpdateUserRequest{FirstName: strPtr("Alicia")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", resp.FirstName)
}

func TestUpdateUser_RoleChange(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(entity.RoleAdmin, "admin")
	doctorUser, _ := app.seedDoctor("3", "cardio")
	plain := app.seedUser(entity.RolePatient, "4")

	t.Run("self cannot change role", func(t *testing.T) {
		expectRollback(app.mock)
		_, err := app.users.Update(asUser(plain), plain.ID, &dto.UpdateUserRequest{Role: strPtr(entity.RoleAdmin)})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("locked while a profile exists", func(t *testing.T) {
		expectRollback(app.mock)
		_, err := app.users.Update(asUser(admin), doctorUser.ID, &dto.UpdateUserRequest{Role: strPtr(entity.RolePatient)})
		require.ErrorIs(t, err, ErrRoleLocked)
		assert.Equal(t, entity.RoleDoctor, app.store.users[doctorUser.ID].Role)
	})

	t.Run("admin changes role of user without profile", func(t *testing.T) {
		expectCommit(app.mock)
		resp, err := app.users.Update(asUser(admin), plain.ID, &dto.UpdateUserRequest{Role: strPtr(entity.RolePharmacist)})
		require.NoError(t, err)
		assert.Equal(t, entity.RolePharmacist, resp.Role)
	})
}

func TestDeleteUser_RemovesProfilesAndRevokesTokens(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(entity.RoleAdmin, "admin")
	doctorUser, profile := app.seedDoctor("3", "cardio")
	require.NoError(t, app.tokens.Save(context.Background(), doctorUser.ID, jwt.AccessToken, "t1", 0))

	expectCommit(app.mock)
	require.NoError(t, app.users.Delete(asUser(admin), doctorUser.ID))

	assert.NotContains(t, app.store.users, doctorUser.ID)
	assert.NotContains(t, app.store.doctors, profile.ID)
	ok, _ := app.tokens.Exists(context.Background(), doctorUser.ID, jwt.AccessToken, "t1")
	assert.False(t, ok)
}

func TestDeleteUser_ProfileReferencedByPrescription(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(entity.RoleAdmin, "admin")
	doctorUser, doctor := app.seedDoctor("3", "cardio")
	_, patient := app.seedPatient("4")
	id := uuid.New()
	app.store.prescriptions[id] = entity.Prescription{ID: id, DoctorProfileID: doctor.ID, PatientProfileID: patient.ID, Status: entity.PrescriptionStatusPending}

	expectRollback(app.mock)
	err := app.users.Delete(asUser(admin), doctorUser.ID)
	require.ErrorIs(t, err, ErrProfileInUse)
}

func TestDeleteUser_NotFound(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(entity.RoleAdmin, "admin")

	expectRollback(app.mock)
	require.ErrorIs(t, app.users.Delete(asUser(admin), uuid.New()), ErrUserNotFound)
}

func TestDirectory_PendingAndRegistered(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(entity.RoleAdmin, "admin")
	waiting := app.seedUser(entity.RoleDoctor, "5")
	registered, profile := app.seedDoctor("6", "pediatria")
	app.seedPatient("7")

	pending, err := app.users.GetPending(context.Background(), entity.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, waiting.ID, pending[0].ID)
	assert.True(t, pending[0].Pending)

	done, err := app.users.GetRegistered(context.Background(), entity.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, registered.ID, done[0].ID)
	assert.Equal(t, profile.ID, *done[0].ProfileID)
	assert.Equal(t, "pediatria", *done[0].Specialty)

	all, err := app.users.GetDirectory(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = app.users.GetPending(context.Background(), entity.RoleAdmin)
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	app := newTestApp(t)
	cfg := config.AdminConfig{DNI: "00000000", Password: "secret"}

	expectCommit(app.mock)
	require.NoError(t, app.users.SeedAdmin(context.Background(), cfg))
	require.NoError(t, app.users.SeedAdmin(context.Background(), cfg))
	require.NoError(t, app.users.SeedAdmin(context.Background(), config.AdminConfig{}))

	require.Len(t, app.store.users, 1)
	for _, u := range app.store.users {
		assert.Equal(t, entity.RoleAdmin, u.Role)
	}
}
