package usecase

import (
	"context"
	"errors"

	"pharmacy-clinic/config"
	"pharmacy-clinic/internal/converter"
	"pharmacy-clinic/internal/delivery/dto"
	"pharmacy-clinic/internal/domain/entity"
	"pharmacy-clinic/internal/domain/repository"
	"pharmacy-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDNIAlreadyExists  = errors.New("dni already registered")
	ErrInvalidRole       = errors.New("invalid role")
	ErrRoleLocked        = errors.New("role cannot change while a role profile exists")
	ErrUserHasReferences = errors.New("user still has prescriptions or notifications attached")
)

type UserUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error)
	RegisterSpecialUser(ctx context.Context, req *dto.RegisterSpecialUserRequest) (*dto.UserResponse, error)
	GetAll(ctx context.Context) ([]dto.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetDirectory(ctx context.Context) ([]dto.DirectoryEntryResponse, error)
	GetPending(ctx context.Context, role string) ([]dto.DirectoryEntryResponse, error)
	GetRegistered(ctx context.Context, role string) ([]dto.DirectoryEntryResponse, error)
	SeedAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type userUsecase struct {
	db                    *gorm.DB
	log                   *logrus.Logger
	userRepo              repository.UserRepository
	doctorProfileRepo     repository.DoctorProfileRepository
	patientProfileRepo    repository.PatientProfileRepository
	pharmacistProfileRepo repository.PharmacistProfileRepository
	tokens                service.TokenStore
	auditService          service.AuditService
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	pharmacistProfileRepo repository.PharmacistProfileRepository,
	tokens service.TokenStore,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		db:                    db,
		log:                   log,
		userRepo:              userRepo,
		doctorProfileRepo:     doctorProfileRepo,
		patientProfileRepo:    patientProfileRepo,
		pharmacistProfileRepo: pharmacistProfileRepo,
		tokens:                tokens,
		auditService:          auditService,
	}
}

func (u *userUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterUserRequest) (*dto.UserResponse, error) {
	user := &entity.User{
		DNI:       req.DNI,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      entity.RolePatient,
	}
	return u.register(ctx, user, req.Password)
}

func (u *userUsecase) RegisterSpecialUser(ctx context.Context, req *dto.RegisterSpecialUserRequest) (*dto.UserResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if c.Role != entity.RoleAdmin {
		return nil, ErrForbidden
	}
	if !entity.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	user := &entity.User{
		DNI:       req.DNI,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
	}
	return u.register(ctx, user, req.Password)
}

func (u *userUsecase) register(ctx context.Context, user *entity.User, password string) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByDNI(ctx, tx, user.DNI)
	if err != nil {
		u.log.Warnf("Failed to find user by dni: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDNIAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}
	user.ID = uuid.New()
	user.Password = string(hashedPassword)

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "dni") {
			return nil, ErrDNIAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	resp := converter.UserToResponse(user)
	if err := u.auditService.LogCreate(ctx, tx, auditUserID(ctx), entity.AuditActionUserRegister, "user", user.ID.String(), resp); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *userUsecase) GetAll(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := u.userRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all users: %+v", err)
		return nil, err
	}
	return converter.UsersToResponses(users), nil
}

func (u *userUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	if err := u.authorizeSelfOrAdmin(ctx, id); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := u.authorizeSelfOrAdmin(ctx, id); err != nil {
		return nil, err
	}
	c, _ := callerFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	oldValue := converter.UserToResponse(user)

	if req.Role != nil && *req.Role != user.Role {
		if c.Role != entity.RoleAdmin {
			return nil, ErrForbidden
		}
		if !entity.IsValidRole(*req.Role) {
			return nil, ErrInvalidRole
		}
		hasProfile, err := u.hasAnyProfile(ctx, tx, user.ID)
		if err != nil {
			return nil, err
		}
		if hasProfile {
			return nil, ErrRoleLocked
		}
		user.Role = *req.Role
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
	}

	if err := u.userRepo.Update(ctx, tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	newValue := converter.UserToResponse(user)
	if err := u.auditService.LogUpdate(ctx, tx, auditUserID(ctx), entity.AuditActionUserUpdate, "user", user.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// Delete removes the account together with its role profiles.
func (u *userUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := u.authorizeSelfOrAdmin(ctx, id); err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := u.deleteProfiles(ctx, tx, user.ID); err != nil {
		return err
	}

	// audit_logs.user_id references users; on self-delete ON DELETE SET NULL clears it with the account.
	if err := u.auditService.LogDelete(ctx, tx, auditUserID(ctx), entity.AuditActionUserDelete, "user", user.ID.String(), converter.UserToResponse(user)); err != nil {
		return err
	}

	if _, err := u.userRepo.Delete(ctx, tx, user.ID); err != nil {
		if isForeignKeyError(err, "") {
			return ErrUserHasReferences
		}
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.tokens.RevokeAll(ctx, user.ID); err != nil {
		u.log.Warnf("Failed to revoke tokens of deleted user: %+v", err)
	}

	return nil
}

func (u *userUsecase) deleteProfiles(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	if doctor, err := u.doctorProfileRepo.FindByUserID(ctx, tx, userID); err != nil {
		return err
	} else if doctor != nil {
		if _, err := u.doctorProfileRepo.Delete(ctx, tx, doctor.ID); err != nil {
			return translateProfileDelete(err)
		}
	}

	if patient, err := u.patientProfileRepo.FindByUserID(ctx, tx, userID); err != nil {
		return err
	} else if patient != nil {
		if _, err := u.patientProfileRepo.Delete(ctx, tx, patient.ID); err != nil {
			return translateProfileDelete(err)
		}
	}

	if pharmacist, err := u.pharmacistProfileRepo.FindByUserID(ctx, tx, userID); err != nil {
		return err
	} else if pharmacist != nil {
		if _, err := u.pharmacistProfileRepo.Delete(ctx, tx, pharmacist.ID); err != nil {
			return translateProfileDelete(err)
		}
	}

	return nil
}

func (u *userUsecase) hasAnyProfile(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, tx, userID)
	if err != nil || doctor != nil {
		return doctor != nil, err
	}
	patient, err := u.patientProfileRepo.FindByUserID(ctx, tx, userID)
	if err != nil || patient != nil {
		return patient != nil, err
	}
	pharmacist, err := u.pharmacistProfileRepo.FindByUserID(ctx, tx, userID)
	return pharmacist != nil, err
}

func (u *userUsecase) GetDirectory(ctx context.Context) ([]dto.DirectoryEntryResponse, error) {
	entries, err := u.directory(ctx)
	if err != nil {
		return nil, err
	}
	return converter.DirectoryEntriesToResponses(entries), nil
}

func (u *userUsecase) GetPending(ctx context.Context, role string) ([]dto.DirectoryEntryResponse, error) {
	if !entity.HasProfile(role) {
		return nil, ErrInvalidRole
	}
	entries, err := u.directory(ctx)
	if err != nil {
		return nil, err
	}
	return converter.DirectoryEntriesToResponses(entity.PendingForRole(entries, role)), nil
}

func (u *userUsecase) GetRegistered(ctx context.Context, role string) ([]dto.DirectoryEntryResponse, error) {
	if !entity.HasProfile(role) {
		return nil, ErrInvalidRole
	}
	entries, err := u.directory(ctx)
	if err != nil {
		return nil, err
	}
	return converter.DirectoryEntriesToResponses(entity.RegisteredForRole(entries, role)), nil
}

// directory fetches the four tables concurrently and joins them in memory.
func (u *userUsecase) directory(ctx context.Context) ([]entity.DirectoryEntry, error) {
	var (
		users       []entity.User
		doctors     []entity.DoctorProfile
		patients    []entity.PatientProfile
		pharmacists []entity.PharmacistProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = u.userRepo.FindAll(gctx, u.db)
		return err
	})
	g.Go(func() (err error) {
		doctors, err = u.doctorProfileRepo.FindAll(gctx, u.db)
		return err
	})
	g.Go(func() (err error) {
		patients, err = u.patientProfileRepo.FindAll(gctx, u.db)
		return err
	})
	g.Go(func() (err error) {
		pharmacists, err = u.pharmacistProfileRepo.FindAll(gctx, u.db)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load user directory: %+v", err)
		return nil, err
	}

	return entity.BuildDirectory(users, doctors, patients, pharmacists), nil
}

// SeedAdmin creates the bootstrap admin account when it does not exist yet.
func (u *userUsecase) SeedAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.DNI == "" || cfg.Password == "" {
		return nil
	}

	existing, err := u.userRepo.FindByDNI(ctx, u.db, cfg.DNI)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	email := cfg.Email
	if email == "" {
		email = "admin@localhost"
	}
	_, err = u.register(ctx, &entity.User{
		DNI:       cfg.DNI,
		Email:     email,
		FirstName: "Admin",
		LastName:  "Admin",
		Role:      entity.RoleAdmin,
	}, cfg.Password)
	if errors.Is(err, ErrDNIAlreadyExists) {
		return nil
	}
	if err == nil {
		u.log.Infof("Seeded admin account %s", cfg.DNI)
	}
	return err
}

func (u *userUsecase) authorizeSelfOrAdmin(ctx context.Context, id uuid.UUID) error {
	c, err := callerFromContext(ctx)
	if err != nil {
		return err
	}
	if c.Role != entity.RoleAdmin && c.UserID != id {
		return ErrForbidden
	}
	return nil
}

func translateProfileDelete(err error) error {
	if isForeignKeyError(err, "profile_id") {
		return ErrProfileInUse
	}
	return err
}
