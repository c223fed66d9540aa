package ethsgw

import (
	"context"

	"github.com/tunnckoCore/ethsgw/schema"
	"golang.org/x/sync/errgroup"
)

// BannedCache stores restored content per inscription id, forever.
type BannedCache interface {
	LoadBanned(id string) (*schema.ContentMeta, error)
	SaveBanned(id string, meta schema.ContentMeta) error
}

// BanPatcher restores content the upstream removed at a rights holder's request.
type BanPatcher struct {
	cache   BannedCache
	content *ContentResolver
}

func NewBanPatcher(cache BannedCache, content *ContentResolver) *BanPatcher {
	return &BanPatcher{cache: cache, content: content}
}

// Patch is a no-op unless rec is redacted. Concurrent first lookups of one id
// may both hit the indexer; the writes are equivalent.
func (b *BanPatcher) Patch(ctx context.Context, rec *schema.Ethscription, network string) error {
	if rec == nil || !rec.ImageRemoved {
		return nil
	}
	id := rec.TransactionHash
	meta, err := b.cache.LoadBanned(id)
	if err != nil {
		meta, err = b.content.FetchContent(ctx, id, rec, network)
		if err != nil {
			return err
		}
		if err = b.cache.SaveBanned(id, *meta); err != nil {
			log.Error("b.cache.SaveBanned(id,meta)", "err", err, "id", id)
		}
	}

	rec.ImageRemoved = false
	if meta.Number != "" {
		rec.EthscriptionNumber = meta.Number
	}
	rec.Mimetype = meta.Mimetype
	rec.ContentUri = meta.ContentUri
	return nil
}

// PatchAll normalizes and patches every record concurrently. Records are
// mutated in place so the slice order is the upstream order.
func (b *BanPatcher) PatchAll(ctx context.Context, recs []*schema.Ethscription, network string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, rec := range recs {
		rec := rec
		if rec == nil {
			continue
		}
		rec.Normalize()
		g.Go(func() error {
			return b.Patch(ctx, rec, network)
		})
	}
	return g.Wait()
}
