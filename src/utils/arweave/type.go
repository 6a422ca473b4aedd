package arweave

type NetworkInfo struct {
	Network          string `json:"network"`
	Version          int64  `json:"version"`
	Release          int64  `json:"release"`
	Height           int64  `json:"height"`
	Current          string `json:"current"`
	Blocks           int64  `json:"blocks"`
	Peers            int64  `json:"peers"`
	QueueLength      int64  `json:"queue_length"`
	NodeStateLatency int64  `json:"node_state_latency"`
}

type Transaction struct {
	Format    int    `json:"format"`
	ID        string `json:"id"`
	LastTx    string `json:"last_tx"`
	Owner     string `json:"owner"`
	Tags      []Tag  `json:"tags"`
	Target    string `json:"target"`
	Quantity  string `json:"quantity"`
	Data      string `json:"data"`
	DataSize  string `json:"data_size"`
	DataRoot  string `json:"data_root"`
	Reward    string `json:"reward"`
	Signature string `json:"signature"`
}

func (self *Transaction) GetTag(name string) (string, bool) {
	for _, tag := range self.Tags {
		if string(tag.Name) == name {
			return string(tag.Value), true
		}
	}
	return "", false
}

// https://docs.arweave.org/developers/arweave-node-server/http-api#get-transaction-status
type TransactionStatus struct {
	BlockHeight           int64  `json:"block_height"`
	BlockIndepHash        string `json:"block_indep_hash"`
	NumberOfConfirmations int64  `json:"number_of_confirmations"`
}

// Tag as returned by the gateway, names and values are base64url encoded
type Tag struct {
	Name  Base64String `json:"name"`
	Value Base64String `json:"value"`
}

// Decodes tags into a map. Later tags override earlier ones with the same name.
func TagsToMap(tags []Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		out[string(tag.Name)] = string(tag.Value)
	}
	return out
}
