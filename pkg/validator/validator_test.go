package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type aliasRequest struct {
	Alias string `validate:"required,notblank,max=8"`
}

func TestNotBlank(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&aliasRequest{Alias: "Smith"}))
	assert.Error(t, v.Validate(&aliasRequest{Alias: "   "}))
	assert.Error(t, v.Validate(&aliasRequest{Alias: ""}))
	assert.Error(t, v.Validate(&aliasRequest{Alias: "much too long"}))
}
