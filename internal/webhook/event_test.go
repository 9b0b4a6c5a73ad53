package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Schemas(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		kind   Kind
		pageID string
		schema string
	}{
		{"entity", `{"type":"page.deleted","entity":{"id":"abc123","type":"page"}}`, KindDeleted, "abc123", "entity"},
		{"data", `{"type":"page.content_updated","data":{"id":"p2"}}`, KindContentUpdated, "p2", "data"},
		{"data page_id", `{"type":"page.properties_updated","data":{"page_id":"p3","id":"evt"}}`, KindPropertiesUpdated, "p3", "data"},
		{"legacy", `{"type":"page.updated","page_id":"p4"}`, KindContentUpdated, "p4", "legacy"},
		{"alias", `{"type":"page.undeleted","entity":{"id":"p5","type":"page"}}`, KindCreated, "p5", "entity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := Parse([]byte(tc.body))
			require.NoError(t, err)
			require.False(t, req.Verification)
			require.Len(t, req.Events, 1)
			ev := req.Events[0]
			assert.Equal(t, tc.kind, ev.Kind)
			assert.Equal(t, tc.pageID, ev.PageID)
			assert.Equal(t, tc.schema, ev.Schema)
			assert.True(t, ev.Supported())
		})
	}
}

func TestParse_Batch(t *testing.T) {
	body := `{"events":[
		{"type":"page.created","entity":{"id":"a","type":"page"}},
		{"type":"page.content_updated","page_id":"b"},
		{"type":"comment.created","entity":{"id":"c","type":"comment"}}
	]}`
	req, err := Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, req.Events, 3)
	assert.Equal(t, "a", req.Events[0].PageID)
	assert.Equal(t, "b", req.Events[1].PageID)
	assert.False(t, req.Events[2].Supported())
	assert.Equal(t, "comment.created", req.Events[2].RawType)
}

func TestParse_Verification(t *testing.T) {
	req, err := Parse([]byte(`{"type":"url_verification","challenge":"tok-1"}`))
	require.NoError(t, err)
	assert.True(t, req.Verification)
	assert.Equal(t, "tok-1", req.Challenge)
	assert.Empty(t, req.Events)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"type":`))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = Parse([]byte(`{"events":[1]}`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestParse_MissingPageID(t *testing.T) {
	req, err := Parse([]byte(`{"type":"page.created"}`))
	require.NoError(t, err)
	require.Len(t, req.Events, 1)
	assert.Equal(t, "", req.Events[0].PageID)
	assert.Equal(t, KindCreated, req.Events[0].Kind)
}

func TestNormalizeKind(t *testing.T) {
	assert.Equal(t, KindDeleted, NormalizeKind("page.deleted"))
	assert.Equal(t, KindPropertiesUpdated, NormalizeKind("page.moved"))
	assert.Equal(t, KindContentUpdated, NormalizeKind("PAGE.CONTENT_UPDATED"))
	assert.Equal(t, Kind(""), NormalizeKind("database.schema_updated"))
}
