package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageRequest struct {
	Order string `query:"order" validate:"omitempty,oneof=asc desc"`
	Limit int    `query:"limit" default:"25" validate:"min=1,max=100"`
}

func bindQuery(t *testing.T, query string) (*pageRequest, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	out := &pageRequest{}
	return out, ReadAndValidateRequest(c, out)
}

func TestReadAndValidateRequest_DefaultsApplied(t *testing.T) {
	req, verr := bindQuery(t, "order=asc")
	require.Nil(t, verr)
	assert.Equal(t, "asc", req.Order)
	assert.Equal(t, 25, req.Limit)
}

func TestReadAndValidateRequest_ReportsQueryNames(t *testing.T) {
	_, verr := bindQuery(t, "order=up&limit=500")
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 2)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "ERR_ONEOF", byField["order"].Code)
	assert.Equal(t, []string{"asc", "desc"}, byField["order"].Params["options"])
	assert.Equal(t, "ERR_MAX", byField["limit"].Code)
	assert.Equal(t, "limit must be at most 100", byField["limit"].Message)
}

func TestReadAndValidateRequest_BindError(t *testing.T) {
	_, verr := bindQuery(t, "limit=many")
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_UNKNOWN", errs[0].Code)
}
