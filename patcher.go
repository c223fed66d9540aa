package ethsgw

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tunnckoCore/ethsgw/schema"
)

// Patcher reshapes an upstream body into the gateway envelope. Exactly one
// branch runs per response.
type Patcher struct {
	ban *BanPatcher
}

func NewPatcher(ban *BanPatcher) *Patcher {
	return &Patcher{ban: ban}
}

func (p *Patcher) Patch(ctx context.Context, body []byte, route *Route) (*schema.Envelope, error) {
	path := strings.TrimRight(route.Path, "/")
	switch {
	case strings.Contains(path, "ethscriptions/"+segFiltered):
		return p.patchFiltered(ctx, body, route)
	case strings.Contains(path, "ethscriptions/"+segExists):
		return p.patchExists(ctx, body, route)
	case strings.HasSuffix(path, "/"+segCollections):
		return patchCollections(body)
	case strings.Contains(path, segCollections+"/"):
		return &schema.Envelope{Data: json.RawMessage(body)}, nil
	default:
		eth := &schema.Ethscription{}
		if err := json.Unmarshal(body, eth); err != nil {
			return nil, err
		}
		if err := p.ban.PatchAll(ctx, []*schema.Ethscription{eth}, route.Network); err != nil {
			return nil, err
		}
		return &schema.Envelope{Data: eth}, nil
	}
}

func (p *Patcher) patchFiltered(ctx context.Context, body []byte, route *Route) (*schema.Envelope, error) {
	res := &schema.FilteredResult{}
	if err := json.Unmarshal(body, res); err != nil {
		return nil, err
	}
	if res.Ethscriptions == nil {
		res.Ethscriptions = make([]*schema.Ethscription, 0)
	}
	if err := p.ban.PatchAll(ctx, res.Ethscriptions, route.Network); err != nil {
		return nil, err
	}

	total := res.TotalCount
	env := &schema.Envelope{
		TotalCount:    &total,
		ResponseCount: res.ResponseCount,
		Data:          res.Ethscriptions,
	}
	if !route.IsProfileQuery() {
		return env, nil
	}

	if route.Info {
		latest := latestRecord(res.Ethscriptions)
		count := int64(0)
		if latest != nil {
			count = 1
		}
		env.ResponseCount = &count
		if latest == nil {
			env.Data = route.Resolved
			return env, nil
		}
		// same shape as the listing: profile is the parsed payload
		if route.Resolved != nil {
			latest.Profile = route.Resolved.Profile
		}
		env.Data = latest
		return env, nil
	}

	for _, eth := range res.Ethscriptions {
		if eth == nil {
			continue
		}
		profile, err := ParseProfile(eth.ContentUri)
		if err != nil {
			log.Warn("malformed profile payload", "id", eth.TransactionHash, "err", err)
			continue
		}
		eth.Profile = profile
	}
	return env, nil
}

func (p *Patcher) patchExists(ctx context.Context, body []byte, route *Route) (*schema.Envelope, error) {
	res := &schema.ExistsResult{}
	if err := json.Unmarshal(body, res); err != nil {
		return nil, err
	}
	out := schema.RespExists{Exists: res.Result}
	if res.Result && res.Ethscription != nil {
		if err := p.ban.PatchAll(ctx, []*schema.Ethscription{res.Ethscription}, route.Network); err != nil {
			return nil, err
		}
		out.Data = res.Ethscription
	}
	return &schema.Envelope{Data: out}, nil
}

// patchCollections sorts the collection list by numeric id ascending.
func patchCollections(body []byte) (*schema.Envelope, error) {
	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		return &schema.Envelope{Data: json.RawMessage(body)}, nil
	}
	items := list.Array()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Get("id").Float() < items[j].Get("id").Float()
	})
	data := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		data = append(data, json.RawMessage(it.Raw))
	}
	total := int64(len(data))
	return &schema.Envelope{TotalCount: &total, Data: data}, nil
}
