package service

import (
	"errors"
	"fmt"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = apperror.Unauthenticated("Invalid username or password")
	ErrUserInactive       = apperror.Unauthenticated("User account is inactive")
	ErrSessionInvalid     = apperror.Unauthenticated("Invalid or expired session")
	ErrSessionReplaced    = apperror.Unauthenticated("Session expired (logged in on another device)")
	ErrWrongPassword      = apperror.Validation("Current password is incorrect")

	ErrProductNotFound     = apperror.NotFound("Product not found")
	ErrProductReferenced   = apperror.Conflict("Product is referenced by existing orders and cannot be deleted")
	ErrInsufficientStock   = apperror.Conflict("Insufficient stock")
	ErrTransactionNotFound = apperror.NotFound("Transaction not found")
	ErrTotalMismatch       = apperror.Validation("Total amount does not match order items")
	ErrInvalidPayment      = apperror.Validation("Invalid payment method")
	ErrEmptyOrder          = apperror.Validation("Order must contain at least one item")
	ErrQuantityOutOfRange  = apperror.Validation("Quantity must be between 1 and 100000 per product")
	ErrAmountOverflow      = apperror.Validation("Order total is too large")

	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrUsernameExists     = apperror.Conflict("Username already exists")
	ErrLastElevatedUser   = apperror.Conflict("Cannot remove the last active admin or manager")
	ErrSelfDelete         = apperror.Conflict("You cannot delete your own account")
	ErrManagerProtected   = apperror.Forbidden("Only a manager can modify manager accounts")
	ErrInvalidRole        = apperror.Validation("Invalid role")
	ErrRoleRequired       = apperror.Validation("At least one role is required")
	ErrInvalidCleanupType = apperror.Validation("Invalid cleanup type")
	ErrInvalidDateRange   = apperror.Validation("Start date must be before end date")
)

// insufficientStock names the product that ran out. errors.Is still matches ErrInsufficientStock.
func insufficientStock(productName string, available, requested int) error {
	return &apperror.Error{
		Kind:    apperror.KindConflict,
		Message: fmt.Sprintf("Insufficient stock for '%s' (available %d, requested %d)", productName, available, requested),
		Err:     ErrInsufficientStock,
	}
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation(validator.Message(errs))
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// internalOr passes taxonomy errors through and wraps anything else as Internal.
func internalOr(err error, msg string) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(msg, err)
}
