package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = Conflict("insufficient stock")

func TestKindOfAndStatus(t *testing.T) {
	cases := []struct {
		err    error
		kind   Kind
		status int
	}{
		{Unauthenticated("no session"), KindUnauthenticated, http.StatusUnauthorized},
		{Forbidden("nope"), KindForbidden, http.StatusForbidden},
		{NotFound("missing"), KindNotFound, http.StatusNotFound},
		{Validation("bad"), KindValidation, http.StatusBadRequest},
		{Conflict("clash"), KindConflict, http.StatusBadRequest},
		{Internal("boom", errors.New("db down")), KindInternal, http.StatusInternalServerError},
		{errors.New("foreign"), KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, KindOf(tc.err), tc.err.Error())
		assert.Equal(t, tc.status, HTTPStatus(KindOf(tc.err)))
	}
}

func TestWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("posting order: %w", errSample)
	assert.True(t, errors.Is(wrapped, errSample))
	assert.Equal(t, KindConflict, KindOf(wrapped))

	copyWithCause := &Error{Kind: KindConflict, Message: "insufficient stock", Err: errors.New("Es Teh")}
	assert.True(t, errors.Is(copyWithCause, errSample))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "missing", PublicMessage(NotFound("missing")))
	assert.Equal(t, "Internal Server Error", PublicMessage(Internal("query failed", errors.New("pq: timeout"))))
	assert.Equal(t, "Internal Server Error", PublicMessage(errors.New("raw")))
}
