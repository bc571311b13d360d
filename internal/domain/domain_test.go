package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- ConversationContext tests ---

func TestConversationContextClone(t *testing.T) {
	orig := ConversationContext{"industry": "tech", "depth": 2}
	clone := orig.Clone()

	assert.Equal(t, orig, clone)

	clone["industry"] = "healthcare"
	assert.Equal(t, "tech", orig["industry"])
}

func TestConversationContextCloneNil(t *testing.T) {
	var c ConversationContext
	assert.Nil(t, c.Clone())
}

// --- JSON serialization tests ---

func TestChatMessageJSON(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	msg := ChatMessage{
		Role:      RoleBot,
		Text:      "Here are 3 leads...",
		Sources:   []Source{"https://example.com/report"},
		CreatedAt: now,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded ChatMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, msg.Role, decoded.Role)
	assert.Equal(t, msg.Text, decoded.Text)
	assert.Equal(t, msg.Sources, decoded.Sources)
	assert.True(t, msg.CreatedAt.Equal(decoded.CreatedAt))
}

func TestChatMessageJSON_OmitsEmptySources(t *testing.T) {
	msg := ChatMessage{Role: RoleUser, Text: "hello", CreatedAt: time.Now()}

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sources")
}

func TestLeadJSONWireNames(t *testing.T) {
	lead := Lead{
		CompanyName: "Acme Corp",
		Address:     "1 Main St",
		Email:       "x@y.com",
		Phone:       "555",
	}

	data, err := json.Marshal(lead)
	require.NoError(t, err)

	// The backend wire format uses snake_case field names.
	assert.Contains(t, string(data), `"company_name":"Acme Corp"`)
	assert.Contains(t, string(data), `"address":"1 Main St"`)
}

func TestSupplierJSONWireNames(t *testing.T) {
	s := Supplier{CompanyName: "Acme", ProductName: "Widget"}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"company_name":"Acme"`)
	assert.Contains(t, string(data), `"product_name":"Widget"`)
	assert.NotContains(t, string(data), "contact_email")
}
