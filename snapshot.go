package ethsgw

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/tunnckoCore/ethsgw/schema"
)

// Snapshotter flattens every item of a collection into {id, owner, creator}
// and collects the unique holders and creators.
type Snapshotter struct {
	eths        Upstream
	concurrency int
}

func NewSnapshotter(eths Upstream) *Snapshotter {
	return &Snapshotter{eths: eths, concurrency: schema.SnapshotConcurrency}
}

type snapshotAcc struct {
	lock     sync.Mutex
	items    []schema.SnapshotItem
	holders  []string
	creators []string
}

func newSnapshotAcc() *snapshotAcc {
	return &snapshotAcc{
		items:    make([]schema.SnapshotItem, 0),
		holders:  make([]string, 0),
		creators: make([]string, 0),
	}
}

// add appends in arrival order; membership checks are linear on purpose,
// collections are small next to the page fetches.
func (a *snapshotAcc) add(eths []*schema.Ethscription) {
	a.lock.Lock()
	defer a.lock.Unlock()
	for _, eth := range eths {
		if eth == nil {
			continue
		}
		owner := strings.ToLower(eth.CurrentOwner)
		creator := strings.ToLower(eth.Creator)
		if !contains(a.holders, owner) {
			a.holders = append(a.holders, owner)
		}
		if !contains(a.creators, creator) {
			a.creators = append(a.creators, creator)
		}
		a.items = append(a.items, schema.SnapshotItem{
			Id:      strings.ToLower(eth.TransactionHash),
			Owner:   owner,
			Creator: creator,
		})
	}
}

// remainingPages is how many pages follow the first response, which already
// covers the first two pages of 25.
func remainingPages(totalCount int64) int {
	pages := int(math.Ceil(float64(totalCount)/float64(schema.SnapshotPageSize))) - 2
	if pages < 0 {
		return 0
	}
	return pages
}

// Snapshot fetches page 1 then pages 3.. through a bounded pool. Any failing
// page fails the whole snapshot.
func (s *Snapshotter) Snapshot(ctx context.Context, collection string, only []string) (*schema.RespSnapshot, error) {
	first, err := s.eths.Filtered(ctx, schema.Mainnet, url.Values{"collection": {collection}})
	if err != nil {
		log.Error("err creating snapshot", "collection", collection, "err", err)
		return nil, fmt.Errorf("Failed to create snapshot for %s: %w", collection, err)
	}
	metricSnapshotPage()

	acc := newSnapshotAcc()
	acc.add(first.Ethscriptions)

	pages := remainingPages(first.TotalCount)
	log.Debug("snapshot pages", "collection", collection, "pages", pages, "items", first.TotalCount)
	if pages > 0 {
		if err = s.fetchPages(ctx, collection, pages, acc); err != nil {
			log.Error("err creating snapshot", "collection", collection, "err", err)
			return nil, fmt.Errorf("Failed to create snapshot for %s: %w", collection, err)
		}
	}

	now := time.Now()
	return &schema.RespSnapshot{
		TotalCount:          len(acc.items),
		SnapshotTimestamp:   now.UnixMilli(),
		SnapshotDate:        now.UTC(),
		Collection:          collection,
		UniqueHoldersCount:  len(acc.holders),
		UniqueCreatorsCount: len(acc.creators),
		Data:                snapshotData(acc, only),
	}, nil
}

func (s *Snapshotter) fetchPages(ctx context.Context, collection string, pages int, acc *snapshotAcc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errLock  sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		errLock.Lock()
		defer errLock.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	p, err := ants.NewPoolWithFunc(s.concurrency, func(i interface{}) {
		defer wg.Done()
		page := i.(int)
		if err := ctx.Err(); err != nil {
			setErr(err)
			return
		}
		res, err := s.eths.Filtered(ctx, schema.Mainnet, url.Values{
			"collection": {collection},
			"page":       {strconv.Itoa(page)},
		})
		if err != nil {
			setErr(fmt.Errorf("page %d: %w", page, err))
			return
		}
		acc.add(res.Ethscriptions)
		metricSnapshotPage()
		log.Debug("fetched snapshot page", "page", page, "collection", collection)
	})
	if err != nil {
		return err
	}
	defer p.Release()

	for page := 3; page < 3+pages; page++ {
		wg.Add(1)
		if err = p.Invoke(page); err != nil {
			wg.Done()
			setErr(err)
			break
		}
	}
	wg.Wait()
	return firstErr
}

// snapshotData picks the data section from only=; the last known key wins
// and stats drops it entirely.
func snapshotData(acc *snapshotAcc, only []string) interface{} {
	unique := schema.SnapshotUnique{Holders: acc.holders, Creators: acc.creators}
	var data interface{} = map[string]interface{}{
		"unique": unique,
		"items":  acc.items,
	}
	for _, key := range only {
		switch key {
		case "holders", "owners":
			data = map[string]interface{}{key: acc.holders}
		case "creators":
			data = map[string]interface{}{key: acc.creators}
		case "items":
			data = map[string]interface{}{key: acc.items}
		case "unique":
			data = map[string]interface{}{key: unique}
		}
	}
	if contains(only, "stats") {
		return nil
	}
	return data
}
