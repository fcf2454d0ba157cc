package httpin

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"admin_console/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("order 9: %w", domain.ErrNotFound), http.StatusNotFound, "not found"},
		{fmt.Errorf("%w: %q", domain.ErrInvalidStatus, "Lost"), http.StatusBadRequest, "invalid status"},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		status, msg := errorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, msg)
	}
}
