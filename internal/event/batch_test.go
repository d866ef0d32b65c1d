package event

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBatch_Roundtrip(t *testing.T) {
	input := `{"id":"e1","ts":1740000000000,"type":"page_load","url":"https://example.com","title":"Example","metadata":{"domain":"example.com","tab_id":3}}
{"id":"e2","ts":1740000060000,"type":"scroll","metadata":{"scroll_count":4}}
`

	res, err := DecodeBatch(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, 0, res.Skipped)

	assert.Equal(t, "e1", res.Events[0].ID)
	assert.Equal(t, PageLoad, res.Events[0].Type)
	assert.Equal(t, "example.com", res.Events[0].Metadata.Domain)
	assert.Equal(t, 3, res.Events[0].Metadata.TabID)
	assert.Equal(t, int64(1740000000000), res.Events[0].Timestamp.UnixMilli())

	assert.Equal(t, Scroll, res.Events[1].Type)
	assert.Equal(t, 4, res.Events[1].Metadata.ScrollCount)
}

func TestDecodeBatch_SkipsMalformedLines(t *testing.T) {
	input := `{"id":"e1","ts":1740000000000,"type":"click"}
not json at all
{"id":"e2","ts":0,"type":"click"}
{"id":"e3","ts":1740000001000}

{"id":"e4","ts":1740000002000,"type":"click"}
`

	res, err := DecodeBatch(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, res.Events, 2)
	assert.Equal(t, 3, res.Skipped, "bad JSON, zero ts, and missing type are skipped")
}

func TestDecodeBatch_IgnoresUnknownMetadataKeys(t *testing.T) {
	input := `{"id":"e1","ts":1740000000000,"type":"click","metadata":{"domain":"a.com","mystery_field":42}}`

	res, err := DecodeBatch(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "a.com", res.Events[0].Metadata.Domain)
}

func TestDecodeBatch_SortsByTimestamp(t *testing.T) {
	input := `{"id":"late","ts":1740000060000,"type":"click"}
{"id":"early","ts":1740000000000,"type":"click"}
`

	res, err := DecodeBatch(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, "early", res.Events[0].ID)
	assert.Equal(t, "late", res.Events[1].ID)
}

func TestDecodeBatch_Empty(t *testing.T) {
	res, err := DecodeBatch(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.Equal(t, 0, res.Skipped)
}
