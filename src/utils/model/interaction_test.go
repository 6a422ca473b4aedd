package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/warp-contracts/arns/src/utils/arweave"
)

func TestInteractionTestSuite(t *testing.T) {
	suite.Run(t, new(InteractionTestSuite))
}

type InteractionTestSuite struct {
	suite.Suite
}

const (
	testTxId       = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	testContractId = "BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"
	testWallet     = "CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"
)

func (s *InteractionTestSuite) TestDecodeTypedPayload() {
	data := []byte(`{
		"id": "` + testTxId + `",
		"contractTxId": "` + testContractId + `",
		"type": "interaction",
		"timestamp": 1700000000000,
		"payload": {"function": "setRecord", "subDomain": "@", "transactionId": "` + testTxId + `", "ttlSeconds": "3600"}
	}`)

	var interaction ContractInteraction
	err := json.Unmarshal(data, &interaction)
	require.Nil(s.T(), err)
	require.Equal(s.T(), testTxId, interaction.Id.String())
	require.Equal(s.T(), "setRecord", interaction.Function())

	record, ok := interaction.Payload.(SetRecord)
	require.True(s.T(), ok)
	require.Equal(s.T(), "@", record.SubDomain)
	require.Equal(s.T(), 3600, record.TtlSeconds)
}

func (s *InteractionTestSuite) TestEncodeAddsFunction() {
	interaction := ContractInteraction{
		Id:           arweave.MustTransactionID(testTxId),
		ContractTxId: arweave.MustTransactionID(testContractId),
		Type:         InteractionTypeInteraction,
		Payload:      BuyRecord{Name: "ardrive", ContractTxId: AtomicFlag, Years: 1, Type: RegistrationTypeLease},
	}

	buf, err := json.Marshal(interaction)
	require.Nil(s.T(), err)

	var raw map[string]any
	require.Nil(s.T(), json.Unmarshal(buf, &raw))
	payload := raw["payload"].(map[string]any)
	require.Equal(s.T(), "buyRecord", payload["function"])
	require.Equal(s.T(), "ardrive", payload["name"])
	require.Equal(s.T(), AtomicFlag, payload["contractTxId"])
}

func (s *InteractionTestSuite) TestDeployPayload() {
	interaction := ContractInteraction{
		Id:       arweave.MustTransactionID(testContractId),
		Deployer: arweave.MustTransactionID(testWallet),
		Type:     InteractionTypeDeploy,
		Payload:  Deployment{SrcTxId: testTxId, InitState: NewAtomicState("ardrive", testWallet)},
	}

	buf, err := json.Marshal(interaction)
	require.Nil(s.T(), err)

	var parsed ContractInteraction
	require.Nil(s.T(), json.Unmarshal(buf, &parsed))
	deployment, ok := parsed.Payload.(Deployment)
	require.True(s.T(), ok)
	require.Equal(s.T(), testTxId, deployment.SrcTxId)

	var state ANTState
	require.Nil(s.T(), json.Unmarshal(deployment.InitState, &state))
	require.Equal(s.T(), "ANT-ARDRIVE", state.Name)
	require.Equal(s.T(), testWallet, state.Owner)
	require.Equal(s.T(), 1.0, state.Balances[testWallet])
	root, ok := state.Root()
	require.True(s.T(), ok)
	require.Equal(s.T(), LandingPageTxId, root.TransactionId)
}

func (s *InteractionTestSuite) TestInvalidId() {
	var interaction ContractInteraction
	err := json.Unmarshal([]byte(`{"id": "short", "type": "interaction"}`), &interaction)
	require.ErrorIs(s.T(), err, arweave.ErrInvalidIdentifier)
}

func (s *InteractionTestSuite) TestUnknownFunctionIsKept() {
	in, err := DecodeInput([]byte(`{"function": "evolve", "value": "x"}`))
	require.Nil(s.T(), err)
	require.Equal(s.T(), "evolve", in.Function())

	buf, err := EncodeInput(in)
	require.Nil(s.T(), err)
	require.JSONEq(s.T(), `{"function": "evolve", "value": "x"}`, string(buf))
}

func (s *InteractionTestSuite) TestSetRecordValidation() {
	require.Nil(s.T(), SetRecord{SubDomain: "@", TransactionId: testTxId, TtlSeconds: 900}.Validate())
	require.ErrorIs(s.T(), SetRecord{SubDomain: "@", TtlSeconds: 59}.Validate(), ErrInvalidInput)
	require.ErrorIs(s.T(), SetRecord{SubDomain: "@", TtlSeconds: 86401}.Validate(), ErrInvalidInput)
	require.ErrorIs(s.T(), SetRecord{SubDomain: "-bad", TtlSeconds: 900}.Validate(), ErrInvalidInput)
}
