package subsonic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"al-1","b":123}`), &v))
	assert.Equal(t, ID("al-1"), v.A)
	assert.Equal(t, ID("123"), v.B)
}

func TestList_SingleObject(t *testing.T) {
	var d Directory
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","child":{"id":"2","title":"Only"}}`), &d))
	require.Len(t, d.Child, 1)
	assert.Equal(t, "Only", d.Child[0].Title)
}

func TestList_NullAndMissing(t *testing.T) {
	var d Directory
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","child":null}`), &d))
	assert.Empty(t, d.Child)

	var a ArtistDetail
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"X"}`), &a))
	assert.Empty(t, a.Album)
}

func TestPlaylistDetail_PromotedFields(t *testing.T) {
	var p PlaylistDetail
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"name":"P","songCount":1,"entry":[{"id":"x"}]}`), &p))
	assert.Equal(t, ID("5"), p.ID)
	assert.Equal(t, "P", p.Name)
	assert.Len(t, p.Entry, 1)
}
