package arweave

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestIdentifierTestSuite(t *testing.T) {
	suite.Run(t, new(IdentifierTestSuite))
}

type IdentifierTestSuite struct {
	suite.Suite
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

func (s *IdentifierTestSuite) TestRoundTrip() {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		buf := make([]byte, TxIdLength)
		for j := range buf {
			buf[j] = alphabet[r.Intn(len(alphabet))]
		}

		id, err := NewTransactionID(string(buf))
		require.Nil(s.T(), err)
		require.Equal(s.T(), string(buf), id.String())
		require.False(s.T(), id.IsZero())
	}
}

func (s *IdentifierTestSuite) TestMalformed() {
	valid := strings.Repeat("a", TxIdLength)
	for _, raw := range []string{
		"",
		valid[1:],
		valid + "a",
		valid[1:] + "=",
		valid[1:] + "+",
		valid[1:] + "/",
		valid[1:] + " ",
		valid[1:] + "ą",
	} {
		_, err := NewTransactionID(raw)
		require.ErrorIs(s.T(), err, ErrInvalidIdentifier, raw)
		require.False(s.T(), IsTransactionID(raw), raw)
	}
}

func (s *IdentifierTestSuite) TestJSON() {
	id := MustTransactionID(strings.Repeat("x", TxIdLength))

	buf, err := json.Marshal(id)
	require.Nil(s.T(), err)

	var parsed TransactionID
	require.Nil(s.T(), json.Unmarshal(buf, &parsed))
	require.Equal(s.T(), id, parsed)

	require.ErrorIs(s.T(), json.Unmarshal([]byte(`"short"`), &parsed), ErrInvalidIdentifier)
}
