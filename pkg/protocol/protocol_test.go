package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/helixdb/pkg/herrors"
)

func TestEncodeErrorMapsCategoryToStatus(t *testing.T) {
	err := herrors.ErrNodeNotFound
	data, status := EncodeError(err)
	assert.Equal(t, 400, status)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, string(herrors.NotFound), body.Error.Code)
}

func TestEncodeErrorCarriesHint(t *testing.T) {
	err := herrors.New(herrors.InvalidInput, "bad dimension").WithHint("check vector length")
	data, status := EncodeError(err)
	assert.Equal(t, 400, status)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "check vector length", body.Error.Hint)
}

func TestRequestIsWrite(t *testing.T) {
	assert.True(t, Request{Type: ReqMutation}.IsWrite())
	assert.False(t, Request{Type: ReqQuery}.IsWrite())
}
