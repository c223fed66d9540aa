package ethsgw

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/tunnckoCore/ethsgw/common"
	"github.com/tunnckoCore/ethsgw/schema"
)

const ensSuffix = ".eth"

// NameService resolves a name to an address, "" when it has none.
type NameService interface {
	ResolveName(ctx context.Context, name string) (string, error)
}

// IdentityResolver maps an address, ENS name or handle to a Resolution.
// A missing identity is schema.ErrIdentityNotFound.
type IdentityResolver interface {
	Resolve(ctx context.Context, input, network string) (*schema.Resolution, error)
}

// ResolvedCache stores resolutions per raw input, forever.
type ResolvedCache interface {
	LoadResolved(key string) (*schema.Resolution, error)
	SaveResolved(key string, res schema.Resolution) error
}

type Resolver struct {
	eths  Upstream
	names NameService
}

func NewResolver(eths Upstream, names NameService) *Resolver {
	return &Resolver{eths: eths, names: names}
}

// Resolve never caches, see CachedResolver.
func (r *Resolver) Resolve(ctx context.Context, input, network string) (*schema.Resolution, error) {
	if ethcommon.IsHexAddress(input) {
		return r.withProfile(ctx, input, network)
	}

	if strings.HasSuffix(strings.ToLower(input), ensSuffix) && r.names != nil {
		addr, err := r.names.ResolveName(ctx, input)
		if err != nil {
			log.Error("r.names.ResolveName(ctx,input)", "err", err, "name", input)
			return nil, err
		}
		if addr != "" {
			return r.withProfile(ctx, addr, network)
		}
		log.Debug("ens name not resolved, trying as handle", "name", input)
	}

	sha := common.Sha256String(common.TextDataURI(input))
	exists, err := r.eths.Exists(ctx, network, sha)
	if err != nil {
		return nil, err
	}
	if !exists.Result || exists.Ethscription == nil || exists.Ethscription.CurrentOwner == "" {
		log.Debug("handle not exists", "handle", input, "sha", sha)
		return nil, schema.ErrIdentityNotFound
	}
	return r.withProfile(ctx, exists.Ethscription.CurrentOwner, network)
}

func (r *Resolver) withProfile(ctx context.Context, address, network string) (*schema.Resolution, error) {
	latest, err := r.LatestProfile(ctx, address, network)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		log.Debug("no user profile configured", "address", address)
		return &schema.Resolution{Address: address}, nil
	}
	profile, err := ParseProfile(latest.ContentUri)
	if err != nil {
		log.Warn("malformed profile payload", "address", address, "id", latest.TransactionHash, "err", err)
		return &schema.Resolution{Address: address}, nil
	}
	return &schema.Resolution{Address: address, Profile: profile}, nil
}

// LatestProfile returns the most recently created profile inscription of
// creator, nil when there is none.
func (r *Resolver) LatestProfile(ctx context.Context, creator, network string) (*schema.Ethscription, error) {
	res, err := r.eths.Filtered(ctx, network, url.Values{
		"creator":  {strings.ToLower(creator)},
		"mimetype": {schema.ProfileMimetype},
	})
	if err != nil {
		return nil, err
	}
	return latestRecord(res.Ethscriptions), nil
}

// latestRecord returns the record created last, the earliest listed one on
// ties, nil when there is none.
func latestRecord(eths []*schema.Ethscription) *schema.Ethscription {
	var latest *schema.Ethscription
	for _, eth := range eths {
		if eth == nil {
			continue
		}
		if latest == nil || eth.CreatedAt().After(latest.CreatedAt()) {
			latest = eth
		}
	}
	return latest
}

// ParseProfile decodes a profile data uri, either raw json after the first
// comma or base64 json after ";base64,". The payload must be a json object.
func ParseProfile(contentUri string) (json.RawMessage, error) {
	uri := strings.TrimSpace(contentUri)
	var payload []byte
	if i := strings.Index(uri, ";base64,"); i > -1 {
		by, err := base64.StdEncoding.DecodeString(uri[i+len(";base64,"):])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrInvalidProfile, err)
		}
		payload = by
	} else if i = strings.Index(uri, ","); i > -1 {
		payload = []byte(uri[i+1:])
	} else {
		return nil, schema.ErrInvalidProfile
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' || !json.Valid(payload) {
		return nil, schema.ErrInvalidProfile
	}
	buf := &bytes.Buffer{}
	if err := json.Compact(buf, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidProfile, err)
	}
	return buf.Bytes(), nil
}

// CachedResolver memoizes successful resolutions by the raw input forever.
type CachedResolver struct {
	resolver IdentityResolver
	cache    ResolvedCache
}

func NewCachedResolver(resolver IdentityResolver, cache ResolvedCache) *CachedResolver {
	return &CachedResolver{resolver: resolver, cache: cache}
}

func (c *CachedResolver) Resolve(ctx context.Context, input, network string) (*schema.Resolution, error) {
	if res, err := c.cache.LoadResolved(input); err == nil {
		return res, nil
	}
	res, err := c.resolver.Resolve(ctx, input, network)
	if err != nil {
		return nil, err
	}
	res.Address = strings.ToLower(res.Address)
	if err = c.cache.SaveResolved(input, *res); err != nil {
		log.Error("c.cache.SaveResolved(input,res)", "err", err, "input", input)
	}
	return res, nil
}
