package arweave

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Bytes sent by Arweave nodes as base64url, for example tag names and values
type Base64String []byte

func (self Base64String) String() string {
	return string(self)
}

func (self *Base64String) UnmarshalJSON(data []byte) (err error) {
	var s string
	err = json.Unmarshal(data, &s)
	if err != nil {
		return
	}

	// Some gateways keep the padding
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return
	}

	*self = b
	return nil
}

func (self Base64String) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.RawURLEncoding.EncodeToString(self))
}
