package schema

import "time"

const (
	CacheControl = "public, max-age=604800, stale-while-revalidate=86400" // 7 days, 1 day swr
)

// Envelope is the unified response shape of every proxied route.
type Envelope struct {
	TotalCount    *int64 `json:"total_count,omitempty"`
	ResponseCount *int64 `json:"response_count,omitempty"`
	Data          any    `json:"data"`
}

type RespExists struct {
	Exists bool          `json:"exists"`
	Data   *Ethscription `json:"data"`
}

type RespSha struct {
	Sha                string `json:"sha"`
	Id                 string `json:"id,omitempty"`
	Mimetype           string `json:"mimetype,omitempty"`
	ContentUri         string `json:"content_uri,omitempty"`
	EthscriptionNumber string `json:"ethscription_number,omitempty"`
	TransactionHash    string `json:"transaction_hash,omitempty"`
}

type SnapshotItem struct {
	Id      string `json:"id"`
	Owner   string `json:"owner"`
	Creator string `json:"creator"`
}

type SnapshotUnique struct {
	Holders  []string `json:"holders"`
	Creators []string `json:"creators"`
}

type RespSnapshot struct {
	TotalCount          int       `json:"total_count"`
	SnapshotTimestamp   int64     `json:"snapshot_timestamp"`
	SnapshotDate        time.Time `json:"snapshot_date"`
	Collection          string    `json:"collection"`
	UniqueHoldersCount  int       `json:"unique_holders_count"`
	UniqueCreatorsCount int       `json:"unique_creators_count"`
	Data                any       `json:"data"`
}

type Account struct {
	Address    string  `json:"address"`
	PublicKey  string  `json:"publicKey"`
	PrivateKey string  `json:"privateKey"`
	Mnemonic   *string `json:"mnemonic"`
}

type RespIndex struct {
	Message   string   `json:"message"`
	Networks  []string `json:"networks"`
	Versions  []string `json:"versions"`
	Endpoints []string `json:"endpoints"`
}

type RespCleared struct {
	Deleted bool `json:"deleted"`
	Count   int  `json:"count"`
}

type RespErr struct {
	Err string `json:"error"`
}

func (r RespErr) Error() string {
	return r.Err
}

// CachedResponse is a captured render-service response kept in memory.
type CachedResponse struct {
	Status int                 `json:"status"`
	Header map[string][]string `json:"header"`
	Body   []byte              `json:"body"`
}
