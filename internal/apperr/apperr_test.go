package apperr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkframe/doccore/internal/apperr"
)

func TestInputError_UnwrapAndErrorsAs(t *testing.T) {
	cause := errors.New("boom")
	err := apperr.NewInputError("text", cause)

	var target *apperr.InputError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "text", target.Field)
	assert.ErrorIs(t, err, cause)
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("cause")
	assert.Contains(t, (&apperr.EmbedderError{Op: "Embed", Err: cause}).Error(), "Embed")
	assert.Contains(t, (&apperr.VectorStoreError{Op: "Insert", Err: cause}).Error(), "Insert")
	assert.Contains(t, (&apperr.ParseError{ChunkIndex: 3, Err: cause}).Error(), "3")
	assert.Contains(t, (&apperr.SummarizationError{Phase: "map", Err: cause}).Error(), "map")
}
