package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	f, err := NewRequest("r1", "chat.send", map[string]string{"message": "hi"})
	require.NoError(t, err)

	assert.Equal(t, FrameTypeRequest, f.Type)
	assert.Equal(t, "r1", f.ID)
	assert.Equal(t, "chat.send", f.Method)
	assert.JSONEq(t, `{"message":"hi"}`, string(f.Params))
}

func TestNewResponse(t *testing.T) {
	f, err := NewResponse("r1", map[string]bool{"reset": true})
	require.NoError(t, err)

	assert.Equal(t, FrameTypeResponse, f.Type)
	require.NotNil(t, f.OK)
	assert.True(t, *f.OK)
	assert.JSONEq(t, `{"reset":true}`, string(f.Payload))
}

func TestNewErrorResponse(t *testing.T) {
	f := NewErrorResponse("r1", ErrorShape{Code: "unauthorized", Message: "token required"})

	assert.Equal(t, FrameTypeResponse, f.Type)
	require.NotNil(t, f.OK)
	assert.False(t, *f.OK)
	require.NotNil(t, f.Error)
	assert.Equal(t, "unauthorized", f.Error.Code)
}

func TestNewEvent(t *testing.T) {
	f, err := NewEvent("chat.delta", map[string]any{"index": 1, "text": "He"}, 7)
	require.NoError(t, err)

	assert.Equal(t, FrameTypeEvent, f.Type)
	assert.Equal(t, "chat.delta", f.Event)
	assert.Equal(t, int64(7), f.Seq)
}

func TestFrameRoundTrip(t *testing.T) {
	f, err := NewRequest("r2", "leads.generate", map[string]string{"supplierId": "s1"})
	require.NoError(t, err)

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var got Frame
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, f.Type, got.Type)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, f.Method, got.Method)
	assert.JSONEq(t, string(f.Params), string(got.Params))
}
