package model

import "encoding/json"

// Payload of a deploy row
type Deployment struct {
	SrcTxId   string            `json:"srcTxId"`
	InitState json.RawMessage   `json:"initState,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

func (Deployment) Function() string { return "deploy" }
