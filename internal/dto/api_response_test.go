package dto_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/HYB-0225/nextkey/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIResponse_ErrOnFailureCode(t *testing.T) {
	var resp dto.APIResponse[dto.LoginData]
	require.NoError(t, json.Unmarshal([]byte(`{"code":401,"message":"authentication failed"}`), &resp))

	assert.False(t, resp.OK())
	assert.Nil(t, resp.Data)

	var be *dto.BusinessError
	require.True(t, errors.As(resp.Err(), &be))
	assert.Equal(t, 401, be.Code)
	assert.Equal(t, "authentication failed", be.Message)
}

func TestAPIResponse_SuccessHasNoErr(t *testing.T) {
	var resp dto.APIResponse[dto.CloudVarData]
	raw := `{"code":0,"message":"success","data":{"id":3,"project_id":1,"key":"motd","value":"hi"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	assert.NoError(t, resp.Err())
	require.NotNil(t, resp.Data)
	assert.Equal(t, "hi", resp.Data.Value)
}

func TestCustomDataRequest_KeepsEmptyValue(t *testing.T) {
	b, err := json.Marshal(dto.CustomDataRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"custom_data":""}`, string(b))
}
