package gql

import (
	"errors"
	"strings"
)

type Query struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type Response struct {
	Data   Data           `json:"data"`
	Errors []ErrorMessage `json:"errors,omitempty"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// Errors reported by the endpoint, if any
func (self *Response) Err() error {
	if len(self.Errors) == 0 {
		return nil
	}
	messages := make([]string, len(self.Errors))
	for i, e := range self.Errors {
		messages[i] = e.Message
	}
	return errors.New("graphql: " + strings.Join(messages, "; "))
}

type Data struct {
	Transactions Transactions `json:"transactions"`
}

type Transactions struct {
	PageInfo PageInfo `json:"pageInfo"`
	Edges    []Edge   `json:"edges"`
}

type PageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

type Edge struct {
	Cursor string `json:"cursor"`
	Node   Node   `json:"node"`
}

type Node struct {
	Id    string `json:"id"`
	Owner Owner  `json:"owner"`
	Tags  []Tag  `json:"tags"`

	// Nil for transactions that aren't mined yet
	Block *Block `json:"block"`
}

type Owner struct {
	Address string `json:"address"`
}

type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Block struct {
	Id        string `json:"id"`
	Height    int64  `json:"height"`
	Timestamp int64  `json:"timestamp"`
}

func (self *Node) GetTag(name string) (string, bool) {
	for _, tag := range self.Tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}
