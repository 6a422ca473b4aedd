package arweave

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagsFromGateway(t *testing.T) {
	var tags []Tag
	err := json.Unmarshal([]byte(`[
		{"name":"bmFtZQ","value":"Zmlyc3Q"},
		{"name":"bmFtZQ","value":"dmFsdWU="},
		{"name":"Q29udHJhY3Q","value":"eA"}
	]`), &tags)
	require.Nil(t, err)

	require.Equal(t, map[string]string{"name": "value", "Contract": "x"}, TagsToMap(tags))

	buf, err := json.Marshal(tags[0])
	require.Nil(t, err)
	require.JSONEq(t, `{"name":"bmFtZQ","value":"Zmlyc3Q"}`, string(buf))
}

func TestTagsNotBase64(t *testing.T) {
	var tags []Tag
	require.Error(t, json.Unmarshal([]byte(`[{"name":"!!","value":""}]`), &tags))
}
