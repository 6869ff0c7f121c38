package service

import (
	"testing"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/ws"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database. A single connection makes
// concurrent DB transactions queue behind each other like row locks do.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Product{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.AuditLog{},
	))
	require.NoError(t, repository.NewRoleRepo(db).SeedDefaults())
	return db
}

type fixture struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	auditRepo   repository.AuditRepository
	hub         *ws.Hub
	log         *logger.Logger
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:          db,
		productRepo: repository.NewProductRepo(db),
		txRepo:      repository.NewTransactionRepo(db),
		userRepo:    repository.NewUserRepo(db),
		roleRepo:    repository.NewRoleRepo(db),
		auditRepo:   repository.NewAuditRepo(db),
		hub:         ws.NewHub(logger.Nop()),
		log:         logger.Nop(),
	}
}

func (f *fixture) inventory() InventoryService {
	return NewInventoryService(f.productRepo, f.txRepo, f.auditRepo, f.db, f.hub, nil, f.log)
}

func (f *fixture) users() UserService {
	return NewUserService(f.db, f.userRepo, f.roleRepo, f.auditRepo, f.log)
}

// seedUser stores an active user with the given roles and returns its identity.
func (f *fixture) seedUser(t *testing.T, username string, roles ...string) policy.Identity {
	t.Helper()
	found, err := f.roleRepo.FindByCodes(f.db, roles)
	require.NoError(t, err)
	require.Len(t, found, len(roles))

	user := &model.User{Username: username, FullName: username, IsActive: true, Roles: found}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, f.userRepo.Create(f.db, user))
	return policy.Identity{UserID: user.ID, Username: username, Roles: roles}
}

func (f *fixture) seedProduct(t *testing.T, name string, price int64, stock int) model.Product {
	t.Helper()
	p := model.Product{Name: name, Price: price, Stock: stock, Category: "Food", IsActive: true}
	require.NoError(t, f.productRepo.Create(f.db, &p))
	return p
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.productRepo.FindByID(id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) count(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(m)
	if table, ok := m.(string); ok {
		q = f.db.Table(table)
	}
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }
