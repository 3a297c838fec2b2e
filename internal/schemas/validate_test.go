package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	return doc
}

func TestValidateContentBundle_Valid(t *testing.T) {
	doc := decode(t, `{
		"bio": {"name": "Jane", "summary": "Builder", "expertise": ["go"]},
		"images": {"profile": {"url": "https://x/p.png", "alt": "me"}, "banner": null},
		"story_chunks": [{"title": "A", "content": "a", "order_index": 2}, {"title": "B", "content": "b", "order_index": null}],
		"values": [{"title": "Craft", "description": "care", "icon": "fa-solid fa-star"}],
		"social_links": [{"platform": "github", "url": "https://github.com/jane"}],
		"blogs": [{"title": "Hi", "slug": "hi", "tags": ["a"]}],
		"videos": [],
		"metadata": {"generated_at": "2025-04-07T12:00:00Z", "content_count": {"blogs": 1}}
	}`)
	assert.NoError(t, ValidateContentBundle(doc))
}

func TestValidateContentBundle_EmptyObject(t *testing.T) {
	assert.NoError(t, ValidateContentBundle(decode(t, `{}`)))
}

func TestValidateContentBundle_WrongTypes(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"bio not object", `{"bio": "Jane"}`, "bio"},
		{"order index string", `{"story_chunks": [{"title": "A", "order_index": "1"}]}`, "story_chunks.0.order_index"},
		{"links not array", `{"social_links": {"platform": "x"}}`, "social_links"},
		{"tag not string", `{"blogs": [{"tags": [1]}]}`, "blogs.0.tags.0"},
		{"count not integer", `{"metadata": {"content_count": {"blogs": "two"}}}`, "metadata.content_count.blogs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContentBundle(decode(t, tt.doc))
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateContentBundle_RootNotObject(t *testing.T) {
	err := ValidateContentBundle(decode(t, `[1, 2]`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "(root)", verr.Errors[0].Field)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{}`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "validation failed")

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var lerr *SchemaLoadError
	require.ErrorAs(t, err, &lerr)
}
