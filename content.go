package ethsgw

import (
	"context"
	"net/url"
	"strings"

	"github.com/tunnckoCore/ethsgw/schema"
)

// Upstream is the primary ethscriptions index.
type Upstream interface {
	Networks() []string
	IsNetwork(network string) bool
	Get(ctx context.Context, network, path string, query url.Values) ([]byte, error)
	GetEthscription(ctx context.Context, network, idOrNumber string) (*schema.Ethscription, error)
	Exists(ctx context.Context, network, sha string) (*schema.ExistsResult, error)
	Filtered(ctx context.Context, network string, query url.Values) (*schema.FilteredResult, error)
}

// ItemIndexer is the secondary indexer consulted for redacted or missing content.
type ItemIndexer interface {
	GetItemMeta(ctx context.Context, id string) (*schema.OrdexMeta, error)
}

type ContentResolver struct {
	eths  Upstream
	ordex ItemIndexer
}

func NewContentResolver(eths Upstream, ordex ItemIndexer) *ContentResolver {
	return &ContentResolver{eths: eths, ordex: ordex}
}

// FetchContent recovers number, content uri and mimetype of ref. Every field
// prefers the secondary indexer and falls back to the primary record.
func (r *ContentResolver) FetchContent(ctx context.Context, ref string, known *schema.Ethscription, network string) (*schema.ContentMeta, error) {
	id := ref
	eth := known
	if eth != nil {
		id = eth.TransactionHash
	} else if isShortRef(ref) {
		var err error
		eth, err = r.eths.GetEthscription(ctx, network, ref)
		if err != nil {
			log.Error("r.eths.GetEthscription(ctx,network,ref)", "err", err, "ref", ref, "network", network)
			return nil, err
		}
		id = eth.TransactionHash
	}

	meta, err := r.ordex.GetItemMeta(ctx, id)
	if err != nil {
		log.Error("r.ordex.GetItemMeta(ctx,id)", "err", err, "id", id)
		return nil, err
	}

	res := &schema.ContentMeta{
		Id:         id,
		Number:     meta.Number,
		ContentUri: meta.RawContent,
		Mimetype:   meta.Mimetype,
	}
	if eth != nil {
		if res.Number == "" {
			res.Number = eth.EthscriptionNumber
		}
		if res.ContentUri == "" {
			res.ContentUri = eth.ContentUri
		}
		if res.Mimetype == "" {
			res.Mimetype = eth.Mimetype
		}
	}
	return res, nil
}

// isShortRef reports whether ref is an ethscription number or another short
// identifier rather than a transaction hash.
func isShortRef(ref string) bool {
	return ref != "" && !strings.HasPrefix(ref, "0x") && len(ref) < 30
}
