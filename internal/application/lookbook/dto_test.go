package lookbook

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookPayloadUnmarshal(t *testing.T) {
	categoryID := uuid.New()

	t.Run("empty id creates a new lookbook", func(t *testing.T) {
		var req SaveLookbookRequest
		err := json.Unmarshal([]byte(`{"lookPayload":{"id":"","title":"Góc đọc sách","category_id":"`+categoryID.String()+`"},"lookItems":[]}`), &req)
		require.NoError(t, err)

		assert.Nil(t, req.LookPayload.ID)
		require.NotNil(t, req.LookPayload.CategoryID)
		assert.Equal(t, categoryID, *req.LookPayload.CategoryID)
		assert.Equal(t, "Góc đọc sách", req.LookPayload.Title)
	})

	t.Run("null and missing ids", func(t *testing.T) {
		var p LookPayload
		require.NoError(t, json.Unmarshal([]byte(`{"id":null,"category_id":""}`), &p))
		assert.Nil(t, p.ID)
		assert.Nil(t, p.CategoryID)

		require.NoError(t, json.Unmarshal([]byte(`{"title":"Look"}`), &p))
		assert.Nil(t, p.ID)
		assert.Equal(t, "Look", p.Title)
	})

	t.Run("existing id is kept", func(t *testing.T) {
		id := uuid.New()
		var p LookPayload
		require.NoError(t, json.Unmarshal([]byte(`{"id":"`+id.String()+`","is_active":false,"style_tags":["scandi"]}`), &p))

		require.NotNil(t, p.ID)
		assert.Equal(t, id, *p.ID)
		require.NotNil(t, p.IsActive)
		assert.False(t, *p.IsActive)
		assert.Equal(t, []string{"scandi"}, p.StyleTags)
	})

	t.Run("malformed id is rejected", func(t *testing.T) {
		var p LookPayload
		assert.Error(t, json.Unmarshal([]byte(`{"id":"not-a-uuid"}`), &p))
	})
}
