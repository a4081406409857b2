package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusErrorWithBody(t *testing.T) {
	err := HTTPStatusErrorWithBody(404, "https://crates.io/api/v1/crates/nope", `{"errors":[]}`)
	assert.Contains(t, err.Error(), "status=404")
	assert.Contains(t, err.Error(), "crates/nope")
	assert.Contains(t, err.Error(), `{"errors":[]}`)
}

func TestCommandError(t *testing.T) {
	cause := errors.New("exit status 101")
	err := CommandError([]byte("error: no manifest found\n"), cause)
	assert.Equal(t, "error: no manifest found: exit status 101", err.Error())
	assert.ErrorIs(t, err, cause)
}
