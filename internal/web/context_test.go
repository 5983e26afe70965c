package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	r := httptest.NewRequest("GET", "/api", nil)
	assert.Empty(t, RequestID(r))

	r = AddValueToContext(r, RequestIDCtxKey, "4b1c")
	assert.Equal(t, "4b1c", RequestID(r))
}

func TestGetValueFromContext_WrongType(t *testing.T) {
	r := AddValueToContext(httptest.NewRequest("GET", "/api", nil), RequestIDCtxKey, 42)

	_, ok := GetValueFromContext[string](r, RequestIDCtxKey)

	assert.False(t, ok)
}
