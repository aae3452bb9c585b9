package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFlexDecimal(t *testing.T) {
	var body struct {
		A FlexDecimal `json:"a"`
		B FlexDecimal `json:"b"`
		C FlexDecimal `json:"c"`
		D FlexDecimal `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 40, "b": " 12.50 ", "c": null}`), &body))

	assert.True(t, body.A.Set)
	assert.Equal(t, "40", body.A.Value.String())
	assert.Equal(t, "12.5", body.B.Value.String())
	assert.False(t, body.C.Set)
	assert.False(t, body.D.Set)

	var bad FlexDecimal
	assert.Error(t, json.Unmarshal([]byte(`"twelve"`), &bad))
}

func TestFlexInt(t *testing.T) {
	var n FlexInt
	require.NoError(t, json.Unmarshal([]byte(`"7"`), &n))
	assert.Equal(t, 7, n.Value)

	require.NoError(t, json.Unmarshal([]byte(`3.9`), &n))
	assert.Equal(t, 3, n.Value)

	require.NoError(t, json.Unmarshal([]byte(`"-2.5"`), &n))
	assert.Equal(t, -2, n.Value)

	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &n))
}

func TestValidatorCustomTags(t *testing.T) {
	type form struct {
		Aadhar string `json:"aadharNumber" validate:"required,aadhar"`
		Phone  string `json:"customerPhone" validate:"required,phone"`
	}

	assert.NoError(t, ValidateStruct(form{Aadhar: "123456789012", Phone: "+91 98765-43210"}))

	for _, aadhar := range []string{"12345678901", "1234567890123", "12345678901a", "１２３４５６７８９０１２"} {
		errs := GetValidationErrors(ValidateStruct(form{Aadhar: aadhar, Phone: "9876543210"}))
		require.Len(t, errs, 1, aadhar)
		assert.Equal(t, "aadharNumber", errs[0].Field)
		assert.Equal(t, "Invalid Aadhar Format. Must be 12 digits.", errs[0].Message)
		assert.True(t, HasTag(errs, "aadhar"))
	}

	errs := GetValidationErrors(ValidateStruct(form{Aadhar: "123456789012", Phone: "abc"}))
	require.Len(t, errs, 1)
	assert.Equal(t, "phone", errs[0].Tag)
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	id := uuid.New().String()

	token, err := GenerateJWT(id, "farmer@example.com", "Green Acres", RoleFarmer, 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)
	assert.Equal(t, RoleFarmer, claims.Role)

	SetJWTSecret("rotated")
	_, err = ValidateJWT(token)
	assert.Error(t, err)

	expired, err := GenerateJWT(id, "", "", RoleCustomer, -1)
	require.NoError(t, err)
	_, err = ValidateJWT(expired)
	assert.Error(t, err)
}

func TestHandleErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{apperr.Validation("Missing fields").WithKey(i18n.KeyValidationMissingFields), http.StatusBadRequest, "Missing fields"},
		{apperr.Conflict("Farmer with this Email or Aadhar already exists"), http.StatusBadRequest, "Farmer with this Email or Aadhar already exists"},
		{apperr.Auth(), http.StatusUnauthorized, "Invalid credentials"},
		{apperr.NotFound("Farmer").WithKey(i18n.KeyFarmerNotFound), http.StatusNotFound, "Farmer not found"},
		{apperr.Dependency("Failed to create order", errors.New("pq: boom")), http.StatusInternalServerError, "Failed to create order"},
		{errors.New("raw driver text"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleError(c, tc.err)

		assert.Equal(t, tc.status, w.Code)
		var out map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, tc.body, out["error"])
	}
}

func TestHandleErrorTranslates(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ContextLang, "hi")

	HandleError(c, apperr.NotFound("Product").WithKey(i18n.KeyProductNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "उत्पाद नहीं मिला")
}
