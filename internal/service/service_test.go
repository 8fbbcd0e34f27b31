package service

import (
	"testing"

	"backend/internal/database"
	"backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database. The hub
// is left nil so no broadcast goroutine is needed.
type testEnv struct {
	db       *gorm.DB
	users    UserService
	orgs     OrganisationService
	roles    RoleService
	profiles ProfileService
	audits   AuditService

	userRepo    repository.UserRepository
	orgRepo     repository.OrganisationRepository
	roleRepo    repository.RoleRepository
	profileRepo repository.ProfileRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	tx := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganisationRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	return &testEnv{
		db:          db,
		users:       NewUserService(userRepo, roleRepo, auditRepo, tx, nil),
		orgs:        NewOrganisationService(orgRepo, userRepo, auditRepo, nil),
		roles:       NewRoleService(roleRepo, tx, auditRepo, nil),
		profiles:    NewProfileService(profileRepo, userRepo, auditRepo, nil),
		audits:      NewAuditService(auditRepo),
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		roleRepo:    roleRepo,
		profileRepo: profileRepo,
	}
}
