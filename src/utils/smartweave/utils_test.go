package smartweave

import (
	"strings"
	"testing"

	"github.com/warp-contracts/arns/src/utils/arweave"

	"github.com/stretchr/testify/require"
)

const contractId = "contractcontractcontractcontractcontractcon"

func TestValidateInteractionTags(t *testing.T) {
	tags, err := BuildInteractionTags(arweave.MustTransactionID(contractId), map[string]any{"function": "setTicker", "ticker": "ANT"})
	require.Nil(t, err)
	require.Nil(t, ValidateInteractionTags(tags, MaxTagSpace))

	id, input, ok := ParseInteraction(tags)
	require.True(t, ok)
	require.Equal(t, contractId, id.String())
	require.JSONEq(t, `{"function":"setTicker","ticker":"ANT"}`, string(input))

	big := tags.Append(Tag{Name: "Big", Value: strings.Repeat("x", MaxTagSpace)})
	require.ErrorIs(t, ValidateInteractionTags(big, MaxTagSpace), ErrTagsTooLarge)
}

func TestValidateInteractionTagsMissing(t *testing.T) {
	for _, tc := range []struct {
		tags Tags
		err  error
	}{
		{Tags{}, ErrInvalidAppName},
		{Tags{{Name: TagAppName, Value: TagAppNameValue}}, ErrMissingContractTag},
		{Tags{{Name: TagAppName, Value: TagAppNameValue}, {Name: TagContractTxId, Value: contractId}}, ErrMissingInputTag},
	} {
		require.ErrorIs(t, ValidateInteractionTags(tc.tags, MaxTagSpace), tc.err)
	}

	invalid := Tags{
		{Name: TagAppName, Value: TagAppNameValue},
		{Name: TagContractTxId, Value: contractId},
		{Name: TagInput, Value: "{"},
	}
	require.Error(t, ValidateInteractionTags(invalid, MaxTagSpace))
}
