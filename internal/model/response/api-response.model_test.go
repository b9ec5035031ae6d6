package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessSerializesData(t *testing.T) {
	raw, err := json.Marshal(Success("ok", map[string]int{"id": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":true,"message":"ok","data":{"id":1}}`, string(raw))
}

func TestSuccessWithNullData(t *testing.T) {
	raw, err := json.Marshal(Success("user deleted", Null))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":true,"message":"user deleted","data":null}`, string(raw))
}

func TestErrorOmitsData(t *testing.T) {
	raw, err := json.Marshal(Error("token not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":false,"message":"token not found"}`, string(raw))
	assert.NotContains(t, string(raw), "data")

	var decoded ApiResponse
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.False(t, decoded.Status)
	assert.Equal(t, "token not found", decoded.Message)
	assert.Nil(t, decoded.Data)
}

func TestSuccessWithEmptyList(t *testing.T) {
	raw, err := json.Marshal(Success("list", []string{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":true,"message":"list","data":[]}`, string(raw))
}

func TestValidationFailedCarriesMapping(t *testing.T) {
	raw, err := json.Marshal(ValidationFailed("validation failed", map[string][]string{"email": {"bad"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":false,"message":"validation failed","data":{"email":["bad"]}}`, string(raw))
}
