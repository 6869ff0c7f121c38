package service

import (
	"errors"
	"testing"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	svc := f.users()

	resp, err := svc.CreateUser(admin, &CreateUserRequest{
		Username: "kasir",
		Password: "rahasia1",
		FullName: "Kasir Satu",
		Roles:    []string{model.RoleCashier},
	})
	require.NoError(t, err)
	assert.Equal(t, "kasir", resp.Username)
	assert.Equal(t, []string{model.RoleCashier}, resp.Roles)
	assert.True(t, resp.IsActive)

	stored, err := f.userRepo.FindByUsername("kasir")
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("rahasia1"))
	assert.NotEqual(t, "rahasia1", stored.Password)

	assert.Equal(t, int64(1), f.count(t, &model.AuditLog{}, "action = ? AND table_name = ?", model.AuditCreate, model.TableUser))

	_, err = svc.CreateUser(admin, &CreateUserRequest{Username: "kasir", Password: "rahasia1", Roles: []string{model.RoleCashier}})
	assert.True(t, errors.Is(err, ErrUsernameExists))
}

func TestCreateUser_Rejections(t *testing.T) {
	f := newFixture(t)
	cashier := f.seedUser(t, "kasir", model.RoleCashier)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	svc := f.users()

	_, err := svc.CreateUser(cashier, &CreateUserRequest{Username: "baru", Password: "rahasia1", Roles: []string{model.RoleCashier}})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = svc.CreateUser(admin, &CreateUserRequest{Username: "bos2", Password: "rahasia1", Roles: []string{model.RoleManager}})
	assert.True(t, errors.Is(err, ErrManagerProtected))

	_, err = svc.CreateUser(admin, &CreateUserRequest{Username: "aneh", Password: "rahasia1", Roles: []string{"CHEF"}})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.CreateUser(admin, &CreateUserRequest{Username: "pendek", Password: "123", Roles: []string{model.RoleCashier}})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	assert.Equal(t, int64(2), f.count(t, &model.User{}, ""))
}

func TestCreateUser_InactiveFlagPersists(t *testing.T) {
	f := newFixture(t)
	manager := f.seedUser(t, "boss", model.RoleManager)

	_, err := f.users().CreateUser(manager, &CreateUserRequest{
		Username: "cuti", Password: "rahasia1", Roles: []string{model.RoleCashier}, IsActive: ptr(false),
	})
	require.NoError(t, err)

	stored, err := f.userRepo.FindByUsername("cuti")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = f.auth().Login(&LoginRequest{Username: "cuti", Password: "rahasia1"})
	assert.True(t, errors.Is(err, ErrUserInactive), "got %v", err)
}

func TestUpdateUser_AdminCannotTouchManager(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	manager := f.seedUser(t, "boss", model.RoleManager)
	svc := f.users()

	_, err := svc.UpdateUser(admin, manager.UserID, &UpdateUserRequest{Username: "boss", Roles: []string{model.RoleCashier}})
	assert.True(t, errors.Is(err, ErrManagerProtected))

	err = svc.DeleteUser(admin, manager.UserID)
	assert.True(t, errors.Is(err, ErrManagerProtected))

	stored, err := f.userRepo.FindByID(manager.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleManager}, stored.RoleCodes())
}

func TestUpdateUser_ChangesRolesAndPassword(t *testing.T) {
	f := newFixture(t)
	manager := f.seedUser(t, "boss", model.RoleManager)
	cashier := f.seedUser(t, "kasir", model.RoleCashier)
	svc := f.users()

	resp, err := svc.UpdateUser(manager, cashier.UserID, &UpdateUserRequest{
		Username: "kasir-senior",
		Password: ptr("barubaru"),
		FullName: "Kasir Senior",
		Roles:    []string{model.RoleAdmin, model.RoleCashier},
	})
	require.NoError(t, err)
	assert.Equal(t, "kasir-senior", resp.Username)
	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleCashier}, resp.Roles)

	stored, err := f.userRepo.FindByID(cashier.UserID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("barubaru"))
	assert.ElementsMatch(t, []string{model.RoleAdmin, model.RoleCashier}, stored.RoleCodes())

	assert.Equal(t, int64(1), f.count(t, &model.AuditLog{}, "action = ? AND record_id = ?", model.AuditUpdate, cashier.UserID.String()))
}

func TestUpdateUser_LastElevatedCannotStepDown(t *testing.T) {
	f := newFixture(t)
	manager := f.seedUser(t, "boss", model.RoleManager)
	f.seedUser(t, "kasir", model.RoleCashier)
	svc := f.users()

	_, err := svc.UpdateUser(manager, manager.UserID, &UpdateUserRequest{Username: "boss", Roles: []string{model.RoleCashier}})
	assert.True(t, errors.Is(err, ErrLastElevatedUser))

	_, err = svc.UpdateUser(manager, manager.UserID, &UpdateUserRequest{Username: "boss", Roles: []string{model.RoleManager}, IsActive: ptr(false)})
	assert.True(t, errors.Is(err, ErrLastElevatedUser))

	f.seedUser(t, "admin", model.RoleAdmin)
	_, err = svc.UpdateUser(manager, manager.UserID, &UpdateUserRequest{Username: "boss", Roles: []string{model.RoleCashier}})
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	manager := f.seedUser(t, "boss", model.RoleManager)
	cashier := f.seedUser(t, "kasir", model.RoleCashier)
	svc := f.users()

	require.NoError(t, svc.DeleteUser(manager, cashier.UserID))
	_, err := svc.GetUserByID(manager, cashier.UserID)
	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.Equal(t, int64(0), f.count(t, "user_roles", "user_id = ?", cashier.UserID))
	assert.Equal(t, int64(1), f.count(t, &model.AuditLog{}, "action = ? AND table_name = ?", model.AuditDelete, model.TableUser))

	err = svc.DeleteUser(manager, manager.UserID)
	assert.True(t, errors.Is(err, ErrSelfDelete))

	err = svc.DeleteUser(manager, uuid.New())
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestDeleteUser_LastElevatedIsConflict(t *testing.T) {
	f := newFixture(t)
	manager := f.seedUser(t, "boss", model.RoleManager)
	// an operator session whose account is not among the stored users
	operator := policy.Identity{UserID: uuid.New(), Username: "operator", Roles: []string{model.RoleManager}}

	err := f.users().DeleteUser(operator, manager.UserID)
	assert.True(t, errors.Is(err, ErrLastElevatedUser))
	assert.Equal(t, int64(1), f.count(t, &model.User{}, ""))
}

func TestDeleteUser_WithTransactionsIsConflict(t *testing.T) {
	f := newFixture(t)
	manager := f.seedUser(t, "boss", model.RoleManager)
	cashier := f.seedUser(t, "kasir", model.RoleCashier)
	product := f.seedProduct(t, "Teh", 3000, 5)

	_, err := f.inventory().PostOrder(cashier, &PostOrderRequest{
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	err = f.users().DeleteUser(manager, cashier.UserID)
	assert.True(t, errors.Is(err, ErrUserHasTransactions))
}

func TestGetAllUsers_RequiresElevated(t *testing.T) {
	f := newFixture(t)
	cashier := f.seedUser(t, "kasir", model.RoleCashier)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	svc := f.users()

	_, err := svc.GetAllUsers(cashier)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	users, err := svc.GetAllUsers(admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
