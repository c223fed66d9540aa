package schema

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	Mainnet       = "mainnet"
	TestnetGoerli = "goerli"

	DefaultMainnetApi  = "https://api.ethscriptions.com"
	DefaultTestnetApi  = "https://goerli-api.ethscriptions.com"
	DefaultOrdexApi    = "https://api.ordex.ai"
	DefaultRendererApi = "https://app.indelible.xyz"
	DefaultEthRpc      = "https://cloudflare-eth.com"

	ProfileMimetype = "application/vnd.esc.user.profile+json"

	// OrdexVersion and OrdexChainPrefix build the secondary indexer item id
	OrdexVersion     = "v0.1"
	OrdexChainPrefix = "ETHEREUM_ETHSCRIPTION"

	SnapshotPageSize    = 25
	SnapshotConcurrency = 15
)

// Ethscription is one upstream inscription record. Fields the gateway does not
// touch are kept in Extra so the record is re-emitted unchanged.
type Ethscription struct {
	TransactionHash    string          `json:"transaction_hash"`
	Id                 string          `json:"id,omitempty"`
	EthscriptionId     string          `json:"ethscription_id,omitempty"`
	EthscriptionNumber json.Number     `json:"ethscription_number,omitempty"`
	Creator            string          `json:"creator"`
	CurrentOwner       string          `json:"current_owner"`
	Owner              string          `json:"owner,omitempty"`
	CreationTimestamp  string          `json:"creation_timestamp,omitempty"`
	Timestamp          int64           `json:"timestamp,omitempty"`
	Mimetype           string          `json:"mimetype,omitempty"`
	ContentUri         string          `json:"content_uri,omitempty"`
	ImageRemoved       bool            `json:"image_removed_by_request_of_rights_holder"`
	Profile            json.RawMessage `json:"profile,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type ethscriptionAlias Ethscription

var ethscriptionKeys = []string{
	"transaction_hash", "id", "ethscription_id", "ethscription_number", "creator",
	"current_owner", "owner", "creation_timestamp", "timestamp", "mimetype",
	"content_uri", "image_removed_by_request_of_rights_holder", "profile",
}

func (e *Ethscription) UnmarshalJSON(data []byte) error {
	alias := ethscriptionAlias{}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	all := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range ethscriptionKeys {
		delete(all, k)
	}
	*e = Ethscription(alias)
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

func (e Ethscription) MarshalJSON() ([]byte, error) {
	by, err := json.Marshal(ethscriptionAlias(e))
	if err != nil || len(e.Extra) == 0 {
		return by, err
	}
	all := make(map[string]json.RawMessage)
	if err = json.Unmarshal(by, &all); err != nil {
		return nil, err
	}
	for k, v := range e.Extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

// Normalize adds the gateway aliases (id, ethscription_id, owner, timestamp)
// and lowercases the addresses.
func (e *Ethscription) Normalize() {
	e.Id = e.TransactionHash
	e.EthscriptionId = e.Id
	if ts, err := time.Parse(time.RFC3339Nano, e.CreationTimestamp); err == nil {
		e.Timestamp = ts.UnixMilli()
	}
	e.CurrentOwner = strings.ToLower(e.CurrentOwner)
	e.Owner = e.CurrentOwner
	e.Creator = strings.ToLower(e.Creator)
}

// CreatedAt returns the parsed creation time, zero when absent or malformed.
func (e *Ethscription) CreatedAt() time.Time {
	ts, _ := time.Parse(time.RFC3339Nano, e.CreationTimestamp)
	return ts
}

// ContentMeta is what the fallback content resolver recovers for an inscription.
// It is also the value stored in the banned bucket.
type ContentMeta struct {
	Id         string      `json:"id"`
	Number     json.Number `json:"number,omitempty"`
	ContentUri string      `json:"content_uri"`
	Mimetype   string      `json:"mimetype"`
}

// Resolution maps an address, ENS name or handle to a canonical address.
type Resolution struct {
	Address string          `json:"address"`
	Profile json.RawMessage `json:"profile,omitempty"`
}

type FilteredResult struct {
	TotalCount    int64           `json:"total_count"`
	ResponseCount *int64          `json:"response_count,omitempty"`
	Ethscriptions []*Ethscription `json:"ethscriptions"`
}

type ExistsResult struct {
	Result       bool          `json:"result"`
	Ethscription *Ethscription `json:"ethscription,omitempty"`
}

// OrdexMeta is the subset of the secondary indexer item we read.
type OrdexMeta struct {
	Number     json.Number
	RawContent string
	Mimetype   string // first content block mimeType
}
