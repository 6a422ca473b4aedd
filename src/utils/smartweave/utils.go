package smartweave

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/warp-contracts/arns/src/utils/arweave"
)

var (
	ErrInvalidAppName     = fmt.Errorf("interaction tag '%s' should be '%s'", TagAppName, TagAppNameValue)
	ErrMissingContractTag = fmt.Errorf("interaction should have a tag '%s'", TagContractTxId)
	ErrMissingInputTag    = fmt.Errorf("interaction should have a tag '%s'", TagInput)
	ErrTagsTooLarge       = errors.New("tags exceed the size limit")
)

// Tags describing an interaction with the contract. Input is serialized to JSON.
func BuildInteractionTags(contractId arweave.TransactionID, input any) (out Tags, err error) {
	buf, err := json.Marshal(input)
	if err != nil {
		return
	}

	out = Tags{
		{Name: TagAppName, Value: TagAppNameValue},
		{Name: TagAppVersion, Value: TagAppVersionValue},
		{Name: TagContractTxId, Value: contractId.String()},
		{Name: TagInput, Value: string(buf)},
	}
	return
}

// Checks tags of an interaction the same way a SmartWeave evaluator would.
// Serialized tags can't take more than maxSize bytes.
func ValidateInteractionTags(tags Tags, maxSize int) (err error) {
	appName, ok := tags.Get(TagAppName)
	if !ok || appName != TagAppNameValue {
		return ErrInvalidAppName
	}

	contractId, ok := tags.Get(TagContractTxId)
	if !ok {
		return ErrMissingContractTag
	}
	if !arweave.IsTransactionID(contractId) {
		return errors.New("interaction contract id is not in the correct format")
	}

	if format, ok := tags.Get(TagInputFormat); ok && format != TagInputFormatTagValue {
		return fmt.Errorf("'%s' tag value can only be '%s'", TagInputFormat, TagInputFormatTagValue)
	}

	input, ok := tags.Get(TagInput)
	if !ok {
		return ErrMissingInputTag
	}

	// Input must be a valid JSON
	if !json.Valid([]byte(input)) {
		return errors.New("value of the input is not a valid JSON")
	}

	if size := tags.Size(); size > maxSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrTagsTooLarge, size, maxSize)
	}

	return nil
}

// Extracts the interaction embedded in tags. Returns false if the tags don't describe one.
func ParseInteraction(tags Tags) (contractId arweave.TransactionID, input json.RawMessage, ok bool) {
	rawContractId, hasContract := tags.Get(TagContractTxId)
	rawInput, hasInput := tags.Get(TagInput)
	if !hasContract || !hasInput || !json.Valid([]byte(rawInput)) {
		return
	}

	contractId, err := arweave.NewTransactionID(rawContractId)
	if err != nil {
		return
	}

	return contractId, json.RawMessage(rawInput), true
}
