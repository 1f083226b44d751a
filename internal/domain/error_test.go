package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(NotFound("client.get", "Client")))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("raw")))

	// Wrapped domain errors keep their code.
	wrapped := fmt.Errorf("outer: %w", Conflict("catalog.create", "Ce SKU est déjà utilisé"))
	assert.Equal(t, ECONFLICT, ErrorCode(wrapped))
}

func TestErrorMessageHidesInternalDetail(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "invoice.list", "query failed")
	assert.Equal(t, GenericInternalMessage, ErrorMessage(err))

	err = Upstream(errors.New("smtp timeout"), "email.send", "mail relay down")
	assert.Equal(t, GenericInternalMessage, ErrorMessage(err))

	// Non-domain errors are also hidden.
	assert.Equal(t, GenericInternalMessage, ErrorMessage(errors.New("boom")))

	// Client-safe codes expose their message verbatim.
	assert.Equal(t, "Le nom est requis", ErrorMessage(Invalid("catalog.create", "Le nom est requis")))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := WrapError(cause, EINTERNAL, "op", "failed")
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, WrapError(nil, EINTERNAL, "op", "failed"))
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: EINVALID, Op: "client.create", Message: "Le nom de l'entreprise est requis"}
	assert.Equal(t, "client.create: Le nom de l'entreprise est requis", err.Error())

	err = &Error{Code: EINTERNAL, Message: "query failed", Err: errors.New("timeout")}
	assert.Equal(t, "query failed: timeout", err.Error())
}
