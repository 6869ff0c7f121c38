package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	ID       uuid.UUID `validate:"uuid_required"`
	Name     string    `validate:"notblank"`
	Quantity int       `validate:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(&sample{ID: uuid.New(), Name: "Nasi Goreng", Quantity: 1})
	assert.Empty(t, errs)

	errs = ValidateStruct(&sample{Name: "   ", Quantity: 0})
	assert.Len(t, errs, 3)
	assert.Equal(t, "sample.ID", errs[0].FailedField)
	assert.Equal(t, "uuid_required", errs[0].Tag)
	assert.Equal(t, "notblank", errs[1].Tag)
	assert.Equal(t, "gt", errs[2].Tag)
	assert.Equal(t, "0", errs[2].Value)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))

	errs := ValidateStruct(&sample{ID: uuid.New(), Name: "x"})
	assert.Equal(t, "Validation failed: field 'sample.Quantity' failed on 'gt=0'", Message(errs))
}
