package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{NotFoundf("Contest does not exist"), http.StatusNotFound, "Contest does not exist"},
		{BadRequestf("Missing properties"), http.StatusBadRequest, "Missing properties"},
		{AlreadyExistsf("Contest %q already exists", "A"), http.StatusBadRequest, `Contest "A" already exists`},
		{errors.New("connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		is := is.New(t)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleError(c, tt.err)

		is.Equal(w.Code, tt.status)
		var resp Response
		is.NoErr(json.Unmarshal(w.Body.Bytes(), &resp))
		is.Equal(resp.Code, tt.status)
		is.Equal(resp.Message, tt.message)
	}
}

func TestErrorKinds(t *testing.T) {
	is := is.New(t)
	err := NotFoundf("Contest does not exist")
	is.True(errors.Is(err, ErrNotFound))
	is.True(!errors.Is(err, ErrBadRequest))

	var appErr *AppError
	is.True(errors.As(err, &appErr))
	is.Equal(appErr.Message, "Contest does not exist")
}

func TestParseContestNumber(t *testing.T) {
	is := is.New(t)
	n, err := ParseContestNumber("12")
	is.NoErr(err)
	is.Equal(n, 12)

	for _, s := range []string{"", "abc", "0", "-3"} {
		_, err := ParseContestNumber(s)
		is.True(errors.Is(err, ErrBadRequest))
	}
}
