package pending

import (
	"strconv"

	"github.com/warp-contracts/arns/src/utils/arweave"
	"github.com/warp-contracts/arns/src/utils/model"
)

// Attribute of a name token presented to the user
type Attribute string

const (
	AttributeName       Attribute = "name"
	AttributeTicker     Attribute = "ticker"
	AttributeTargetID   Attribute = "targetID"
	AttributeTtlSeconds Attribute = "ttlSeconds"
	AttributeController Attribute = "controller"
	AttributeOwner      Attribute = "owner"
)

// Attribute value that will change once the interaction is confirmed
type PendingRow struct {
	Attribute Attribute
	Value     string
	Id        arweave.TransactionID
	Valid     *bool
}

// Values of the attributes changed by the interaction
func changedAttributes(payload model.Input) map[Attribute]string {
	switch in := payload.(type) {
	case model.SetName:
		return map[Attribute]string{AttributeName: in.Name}
	case model.SetTicker:
		return map[Attribute]string{AttributeTicker: in.Ticker}
	case model.SetRecord:
		return map[Attribute]string{
			AttributeTargetID:   in.TransactionId,
			AttributeTtlSeconds: strconv.Itoa(in.TtlSeconds),
		}
	case model.SetController:
		return map[Attribute]string{AttributeController: in.Target}
	case model.Transfer:
		return map[Attribute]string{AttributeOwner: in.Target}
	}
	return nil
}

// Pending changes that differ from the confirmed values. Interactions that don't change any attribute are ignored.
func PendingRows(interactions []model.ContractInteraction, existing map[Attribute]string) (out []PendingRow) {
	order := []Attribute{AttributeName, AttributeTicker, AttributeTargetID, AttributeTtlSeconds, AttributeController, AttributeOwner}

	for _, interaction := range interactions {
		changed := changedAttributes(interaction.Payload)
		for _, attribute := range order {
			value, ok := changed[attribute]
			if !ok || existing[attribute] == value {
				continue
			}
			out = append(out, PendingRow{
				Attribute: attribute,
				Value:     value,
				Id:        interaction.Id,
				Valid:     interaction.Valid,
			})
		}
	}
	return
}

// Confirmed attribute values of a name token
func ExistingValues(state *model.ANTState) map[Attribute]string {
	out := map[Attribute]string{
		AttributeName:       state.Name,
		AttributeTicker:     state.Ticker,
		AttributeController: state.Controller,
		AttributeOwner:      state.Owner,
	}
	if root, ok := state.Root(); ok {
		out[AttributeTargetID] = root.TransactionId
		out[AttributeTtlSeconds] = strconv.Itoa(root.TtlSeconds)
	}
	return out
}
