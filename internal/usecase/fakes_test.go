package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"pharmacy-clinic/config"
	"pharmacy-clinic/internal/delivery/http/middleware"
	"pharmacy-clinic/internal/domain/entity"
	"pharmacy-clinic/internal/service"
	"pharmacy-clinic/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// --- helpers ---

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newMockDB opens gorm on top of sqlmock. Repositories are faked, so the only statements
// that reach the driver are transaction boundaries.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})
	return db, mock
}

func expectCommit(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func expectRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

func asUser(user *entity.User) context.Context {
	return middleware.WithIdentity(context.Background(), user.ID, user.DNI, user.Role, "tok-"+user.ID.String())
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

// --- in-memory store ---

type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]entity.User
	doctors       map[uuid.UUID]entity.DoctorProfile
	patients      map[uuid.UUID]entity.PatientProfile
	pharmacists   map[uuid.UUID]entity.PharmacistProfile
	medications   map[uuid.UUID]entity.Medication
	prescriptions map[uuid.UUID]entity.Prescription
	notifications map[uuid.UUID]entity.Notification
	audits        []entity.AuditLog

	// fail makes the named operation (e.g. "prescription.Create") return the error.
	fail map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]entity.User{},
		doctors:       map[uuid.UUID]entity.DoctorProfile{},
		patients:      map[uuid.UUID]entity.PatientProfile{},
		pharmacists:   map[uuid.UUID]entity.PharmacistProfile{},
		medications:   map[uuid.UUID]entity.Medication{},
		prescriptions: map[uuid.UUID]entity.Prescription{},
		notifications: map[uuid.UUID]entity.Notification{},
		fail:          map[string]error{},
	}
}

func (s *memStore) failure(op string) error {
	return s.fail[op]
}

func (s *memStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.audits))
	for i, a := range s.audits {
		actions[i] = a.Action
	}
	return actions
}

func (s *memStore) referencesProfile(profileID uuid.UUID) bool {
	for _, p := range s.prescriptions {
		if p.DoctorProfileID == profileID || p.PatientProfileID == profileID {
			return true
		}
	}
	return false
}

// --- users ---

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("user.Create"); err != nil {
		return err
	}
	for _, u := range r.s.users {
		if u.DNI == user.DNI {
			return pgError("23505", "idx_users_dni")
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByDNI(_ context.Context, _ *gorm.DB, dni string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.DNI == dni {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, _ *gorm.DB) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].DNI < users[j].DNI })
	return users, nil
}

func (r *fakeUserRepo) Update(_ context.Context, _ *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return 0, nil
	}
	delete(r.s.users, id)
	return 1, nil
}

// --- doctor profiles ---

type fakeDoctorRepo struct{ s *memStore }

func (r *fakeDoctorRepo) Create(_ context.Context, _ *gorm.DB, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.doctors {
		if d.UserID == profile.UserID {
			return pgError("23505", "doctor_profiles_user_id_key")
		}
	}
	profile.CreatedAt = time.Now()
	stored := *profile
	stored.User = entity.User{}
	r.s.doctors[profile.ID] = stored
	return nil
}

func (r *fakeDoctorRepo) withUser(d entity.DoctorProfile) *entity.DoctorProfile {
	d.User = r.s.users[d.UserID]
	return &d
}

func (r *fakeDoctorRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, nil
	}
	return r.withUser(d), nil
}

func (r *fakeDoctorRepo) FindByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.doctors {
		if d.UserID == userID {
			return r.withUser(d), nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) FindAll(_ context.Context, _ *gorm.DB) ([]entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.DoctorProfile, 0, len(r.s.doctors))
	for _, d := range r.s.doctors {
		out = append(out, *r.withUser(d))
	}
	return out, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, _ *gorm.DB, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.doctors[profile.ID]
	stored.Specialty = profile.Specialty
	r.s.doctors[profile.ID] = stored
	return nil
}

func (r *fakeDoctorRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.doctors[id]; !ok {
		return 0, nil
	}
	if r.s.referencesProfile(id) {
		return 0, pgError("23503", "prescriptions_doctor_profile_id_fkey")
	}
	delete(r.s.doctors, id)
	return 1, nil
}

// --- patient profiles ---

type fakePatientRepo struct{ s *memStore }

func (r *fakePatientRepo) Create(_ context.Context, _ *gorm.DB, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.patients {
		if p.UserID == profile.UserID {
			return pgError("23505", "patient_profiles_user_id_key")
		}
	}
	profile.CreatedAt = time.Now()
	stored := *profile
	stored.User = entity.User{}
	r.s.patients[profile.ID] = stored
	return nil
}

func (r *fakePatientRepo) withUser(p entity.PatientProfile) *entity.PatientProfile {
	p.User = r.s.users[p.UserID]
	return &p
}

func (r *fakePatientRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[id]
	if !ok {
		return nil, nil
	}
	return r.withUser(p), nil
}

func (r *fakePatientRepo) FindByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.patients {
		if p.UserID == userID {
			return r.withUser(p), nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindAll(_ context.Context, _ *gorm.DB) ([]entity.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.PatientProfile, 0, len(r.s.patients))
	for _, p := range r.s.patients {
		out = append(out, *r.withUser(p))
	}
	return out, nil
}

func (r *fakePatientRepo) Update(_ context.Context, _ *gorm.DB, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.patients[profile.ID]
	stored.BirthDate = profile.BirthDate
	r.s.patients[profile.ID] = stored
	return nil
}

func (r *fakePatientRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[id]; !ok {
		return 0, nil
	}
	if r.s.referencesProfile(id) {
		return 0, pgError("23503", "prescriptions_patient_profile_id_fkey")
	}
	delete(r.s.patients, id)
	return 1, nil
}

// --- pharmacist profiles ---

type fakePharmacistRepo struct{ s *memStore }

func (r *fakePharmacistRepo) Create(_ context.Context, _ *gorm.DB, profile *entity.PharmacistProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.pharmacists {
		if p.UserID == profile.UserID {
			return pgError("23505", "pharmacist_profiles_user_id_key")
		}
	}
	profile.CreatedAt = time.Now()
	stored := *profile
	stored.User = entity.User{}
	r.s.pharmacists[profile.ID] = stored
	return nil
}

func (r *fakePharmacistRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.PharmacistProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pharmacists[id]
	if !ok {
		return nil, nil
	}
	p.User = r.s.users[p.UserID]
	return &p, nil
}

func (r *fakePharmacistRepo) FindByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*entity.PharmacistProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.pharmacists {
		if p.UserID == userID {
			p.User = r.s.users[p.UserID]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePharmacistRepo) FindAll(_ context.Context, _ *gorm.DB) ([]entity.PharmacistProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.PharmacistProfile, 0, len(r.s.pharmacists))
	for _, p := range r.s.pharmacists {
		p.User = r.s.users[p.UserID]
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePharmacistRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pharmacists[id]; !ok {
		return 0, nil
	}
	delete(r.s.pharmacists, id)
	return 1, nil
}

// --- medications ---

type fakeMedicationRepo struct{ s *memStore }

func (r *fakeMedicationRepo) Create(_ context.Context, _ *gorm.DB, medication *entity.Medication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	medication.CreatedAt = time.Now()
	medication.UpdatedAt = medication.CreatedAt
	r.s.medications[medication.ID] = *medication
	return nil
}

func (r *fakeMedicationRepo) FindAll(_ context.Context, _ *gorm.DB, filter entity.MedicationFilter) ([]entity.Medication, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []entity.Medication
	for _, m := range r.s.medications {
		if filter.Search == "" || strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Search)) {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []entity.Medication{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeMedicationRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medications[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *fakeMedicationRepo) FindByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]entity.Medication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Medication
	for _, id := range ids {
		if m, ok := r.s.medications[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMedicationRepo) Update(_ context.Context, _ *gorm.DB, medication *entity.Medication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.medications[medication.ID] = *medication
	return nil
}

func (r *fakeMedicationRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.prescriptions {
		for _, d := range p.Details {
			if d.MedicationID == id {
				return 0, pgError("23503", "prescription_details_medication_id_fkey")
			}
		}
	}
	if _, ok := r.s.medications[id]; !ok {
		return 0, nil
	}
	delete(r.s.medications, id)
	return 1, nil
}

// --- prescriptions ---

type fakePrescriptionRepo struct{ s *memStore }

func (r *fakePrescriptionRepo) Create(_ context.Context, _ *gorm.DB, prescription *entity.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("prescription.Create"); err != nil {
		return err
	}
	for _, d := range prescription.Details {
		if _, ok := r.s.medications[d.MedicationID]; !ok {
			return pgError("23503", "prescription_details_medication_id_fkey")
		}
	}
	stored := *prescription
	stored.Doctor = entity.DoctorProfile{}
	stored.Patient = entity.PatientProfile{}
	stored.Details = make([]entity.PrescriptionDetail, len(prescription.Details))
	for i, d := range prescription.Details {
		d.Medication = entity.Medication{}
		stored.Details[i] = d
	}
	r.s.prescriptions[prescription.ID] = stored
	return nil
}

func (r *fakePrescriptionRepo) withRelations(p entity.Prescription) entity.Prescription {
	doctor := r.s.doctors[p.DoctorProfileID]
	doctor.User = r.s.users[doctor.UserID]
	patient := r.s.patients[p.PatientProfileID]
	patient.User = r.s.users[patient.UserID]
	p.Doctor = doctor
	p.Patient = patient

	details := make([]entity.PrescriptionDetail, len(p.Details))
	for i, d := range p.Details {
		d.Medication = r.s.medications[d.MedicationID]
		details[i] = d
	}
	p.Details = details
	return p
}

func (r *fakePrescriptionRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.prescriptions[id]
	if !ok {
		return nil, nil
	}
	p = r.withRelations(p)
	return &p, nil
}

func (r *fakePrescriptionRepo) FindAll(_ context.Context, _ *gorm.DB, filter entity.PrescriptionFilter) ([]entity.Prescription, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []entity.Prescription
	for _, p := range r.s.prescriptions {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.PatientProfileID != nil && p.PatientProfileID != *filter.PatientProfileID {
			continue
		}
		if filter.DoctorProfileID != nil && p.DoctorProfileID != *filter.DoctorProfileID {
			continue
		}
		matched = append(matched, r.withRelations(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].IssueDate.After(matched[j].IssueDate) })
	total := int64(len(matched))
	if filter.Limit > 0 {
		if filter.Offset >= len(matched) {
			return []entity.Prescription{}, total, nil
		}
		matched = matched[filter.Offset:]
		if filter.Limit < len(matched) {
			matched = matched[:filter.Limit]
		}
	}
	return matched, total, nil
}

func (r *fakePrescriptionRepo) UpdateComments(_ context.Context, _ *gorm.DB, id uuid.UUID, comments *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.prescriptions[id]
	p.Comments = comments
	r.s.prescriptions[id] = p
	return nil
}

func (r *fakePrescriptionRepo) MarkDelivered(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.prescriptions[id]
	if !ok || p.Status != entity.PrescriptionStatusPending {
		return 0, nil
	}
	p.Status = entity.PrescriptionStatusDelivered
	r.s.prescriptions[id] = p
	return 1, nil
}

func (r *fakePrescriptionRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.prescriptions[id]; !ok {
		return 0, nil
	}
	delete(r.s.prescriptions, id)
	for nid, n := range r.s.notifications {
		if n.PrescriptionID == id {
			delete(r.s.notifications, nid)
		}
	}
	return 1, nil
}

// --- notifications ---

type fakeNotificationRepo struct{ s *memStore }

func (r *fakeNotificationRepo) Create(_ context.Context, _ *gorm.DB, notification *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("notification.Create"); err != nil {
		return err
	}
	notification.CreatedAt = time.Now()
	stored := *notification
	stored.Prescription = nil
	r.s.notifications[notification.ID] = stored
	return nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (r *fakeNotificationRepo) FindByPatientProfileID(_ context.Context, _ *gorm.DB, patientProfileID uuid.UUID) ([]entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.Notification{}
	for _, n := range r.s.notifications {
		if n.PatientProfileID == patientProfileID {
			p := r.s.prescriptions[n.PrescriptionID]
			n.Prescription = &p
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountByPrescription(_ context.Context, _ *gorm.DB, prescriptionID uuid.UUID, status entity.NotificationStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifications {
		if n.PrescriptionID == prescriptionID && n.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status entity.NotificationStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return 0, nil
	}
	n.Status = status
	r.s.notifications[id] = n
	return 1, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notifications[id]; !ok {
		return 0, nil
	}
	delete(r.s.notifications, id)
	return 1, nil
}

// --- audit logs ---

type fakeAuditRepo struct{ s *memStore }

func (r *fakeAuditRepo) Create(_ context.Context, _ *gorm.DB, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("audit.Create"); err != nil {
		return err
	}
	log.ID = int64(len(r.s.audits) + 1)
	log.CreatedAt = time.Now()
	r.s.audits = append(r.s.audits, *log)
	return nil
}

func (r *fakeAuditRepo) FindAll(_ context.Context, _ *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []entity.AuditLog
	for _, a := range r.s.audits {
		if !strings.HasPrefix(a.Action, filter.Action) {
			continue
		}
		if filter.UserID != nil && (a.UserID == nil || *a.UserID != *filter.UserID) {
			continue
		}
		matched = append(matched, a)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []entity.AuditLog{}, total, nil
	}
	logs := matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(logs) {
		logs = logs[:filter.Limit]
	}
	return logs, total, nil
}

func (r *fakeAuditRepo) FindByID(_ context.Context, _ *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.audits {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

// --- services ---

type fakeTokenStore struct {
	mu    sync.Mutex
	valid map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{valid: map[string]bool{}}
}

func (s *fakeTokenStore) Save(_ context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid[service.TokenKey(userID, tokenType, tokenID)] = true
	return nil
}

func (s *fakeTokenStore) Exists(_ context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid[service.TokenKey(userID, tokenType, tokenID)], nil
}

func (s *fakeTokenStore) Revoke(_ context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.valid, service.TokenKey(userID, tokenType, tokenID))
	return nil
}

func (s *fakeTokenStore) RevokeAll(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.valid {
		if strings.Contains(key, ":"+userID.String()+":") {
			delete(s.valid, key)
		}
	}
	return nil
}

type recordingEvents struct {
	created   []uuid.UUID
	dispensed []uuid.UUID
}

func (e *recordingEvents) PrescriptionCreated(_ context.Context, p *entity.Prescription) {
	e.created = append(e.created, p.ID)
}

func (e *recordingEvents) PrescriptionDispensed(_ context.Context, p *entity.Prescription) {
	e.dispensed = append(e.dispensed, p.ID)
}

// --- wiring ---

// testApp wires every usecase over one in-memory store.
type testApp struct {
	store  *memStore
	mock   sqlmock.Sqlmock
	tokens *fakeTokenStore
	events *recordingEvents
	jwt    *jwt.JWTService

	auth          AuthUsecase
	users         UserUsecase
	doctors       DoctorProfileUsecase
	patients      PatientProfileUsecase
	pharmacists   PharmacistProfileUsecase
	medications   MedicationUsecase
	prescriptions PrescriptionUsecase
	notifications NotificationUsecase
	auditLogs     AuditLogUsecase
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, mock := newMockDB(t)
	log := quietLogger()
	store := newMemStore()

	userRepo := &fakeUserRepo{store}
	doctorRepo := &fakeDoctorRepo{store}
	patientRepo := &fakePatientRepo{store}
	pharmacistRepo := &fakePharmacistRepo{store}
	medicationRepo := &fakeMedicationRepo{store}
	prescriptionRepo := &fakePrescriptionRepo{store}
	notificationRepo := &fakeNotificationRepo{store}
	auditRepo := &fakeAuditRepo{store}

	tokens := newFakeTokenStore()
	events := &recordingEvents{}
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	auditService := service.NewAuditService(log, auditRepo)

	return &testApp{
		store:         store,
		mock:          mock,
		tokens:        tokens,
		events:        events,
		jwt:           jwtService,
		auth:          NewAuthUsecase(db, log, userRepo, jwtService, tokens, auditService),
		users:         NewUserUsecase(db, log, userRepo, doctorRepo, patientRepo, pharmacistRepo, tokens, auditService),
		doctors:       NewDoctorProfileUsecase(db, log, userRepo, doctorRepo, auditService),
		patients:      NewPatientProfileUsecase(db, log, userRepo, patientRepo, auditService),
		pharmacists:   NewPharmacistProfileUsecase(db, log, userRepo, pharmacistRepo, auditService),
		medications:   NewMedicationUsecase(db, log, medicationRepo, auditService),
		prescriptions: NewPrescriptionUsecase(db, log, prescriptionRepo, doctorRepo, patientRepo, medicationRepo, notificationRepo, auditService, events),
		notifications: NewNotificationUsecase(db, log, notificationRepo, prescriptionRepo, patientRepo, auditService),
		auditLogs:     NewAuditLogUsecase(db, log, auditRepo),
	}
}

// seedUser stores an account directly, bypassing registration.
func (a *testApp) seedUser(role, dni string) *entity.User {
	user := entity.User{
		ID:        uuid.New(),
		DNI:       dni,
		Email:     dni + "@clinic.test",
		FirstName: "Name" + dni,
		LastName:  "Last" + dni,
		Role:      role,
	}
	a.store.users[user.ID] = user
	return &user
}

func (a *testApp) seedDoctor(dni, specialty string) (*entity.User, entity.DoctorProfile) {
	user := a.seedUser(entity.RoleDoctor, dni)
	profile := entity.DoctorProfile{ID: uuid.New(), UserID: user.ID, Specialty: specialty}
	a.store.doctors[profile.ID] = profile
	return user, profile
}

func (a *testApp) seedPatient(dni string) (*entity.User, entity.PatientProfile) {
	user := a.seedUser(entity.RolePatient, dni)
	profile := entity.PatientProfile{ID: uuid.New(), UserID: user.ID}
	a.store.patients[profile.ID] = profile
	return user, profile
}

func (a *testApp) seedMedication(name string, stock int) entity.Medication {
	medication := entity.Medication{ID: uuid.New(), Name: name, Stock: stock}
	a.store.medications[medication.ID] = medication
	return medication
}
