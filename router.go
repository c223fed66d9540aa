package ethsgw

import (
	"context"
	"net/url"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/tunnckoCore/ethsgw/schema"
)

type RouteKind int

const (
	RouteUpstream RouteKind = iota
	RouteAccount
	RoutePrivateKey
	RouteMnemonic
	RouteContent
	RouteSha     // sha of an ethscription content
	RouteHash    // sha of an arbitrary data uri
	RouteSnapshot
)

const (
	segEthscriptions = "ethscriptions"
	segEths          = "eths"
	segProfiles      = "profiles"
	segOwnedBy       = "owned_by"
	segFiltered      = "filtered"
	segExists        = "exists"
	segCollections   = "collections"
)

// Route is the upstream request descriptor of an external path.
type Route struct {
	Kind    RouteKind
	Network string
	Path    string     // upstream path, e.g. /api/ethscriptions/filtered
	Query   url.Values // upstream query
	Params  url.Values // client query as received
	Subject string     // id, collection name or identity

	Info     bool               // single latest profile
	Resolved *schema.Resolution // identity resolved while translating, if any
}

func (r *Route) IsProfileQuery() bool {
	return r.Query.Get("mimetype") == schema.ProfileMimetype
}

// routeReq is the parsed path a rule matches on.
type routeReq struct {
	segs    []string // normalized external segments after /v1
	network string
	rest    []string // segments after the network, eths renamed
	query   url.Values
}

type rule struct {
	name      string
	match     func(r *routeReq) bool
	transform func(ctx context.Context, t *Router, r *routeReq) (*Route, error)
}

// Router translates the versioned external api onto the upstream one. Rules
// are checked in order and the first match wins.
type Router struct {
	eths     Upstream
	resolver IdentityResolver
	rules    []rule
}

func NewRouter(eths Upstream, resolver IdentityResolver) *Router {
	return &Router{eths: eths, resolver: resolver, rules: defaultRules}
}

var defaultRules = []rule{
	{"generate-account", lastSegIs("generate-account"), utilityRoute(RouteAccount)},
	{"generate-private-key", lastSegIs("generate-private-key"), utilityRoute(RoutePrivateKey)},
	{"generate-mnemonic", lastSegIs("generate-mnemonic"), utilityRoute(RouteMnemonic)},
	{"content", matchContent, transformContent},
	{"sha", matchSha, transformSha},
	{"hash", matchHash, transformHash},
	{"snapshot", matchSnapshot, transformSnapshot},
	{"owned_by", matchOwnedBy, transformOwnedBy},
	{"plural", matchPlural, transformPlural},
	{"profiles", matchProfiles, transformProfiles},
	{"pass", func(*routeReq) bool { return true }, transformPass},
}

// Translate maps an external path such as /v1/mainnet/eths/owned_by/foo.eth
// to a Route. An identity that cannot be resolved is schema.ErrIdentityNotFound.
func (t *Router) Translate(ctx context.Context, path string, query url.Values) (*Route, error) {
	req := parseRouteReq(path, query)
	for _, ru := range t.rules {
		if !ru.match(req) {
			continue
		}
		route, err := ru.transform(ctx, t, req)
		if err != nil {
			return nil, err
		}
		route.Params = query
		log.Debug("route matched", "rule", ru.name, "path", path, "upstream", route.Path, "query", route.Query.Encode())
		return route, nil
	}
	return nil, schema.ErrNotExist
}

func parseRouteReq(path string, query url.Values) *routeReq {
	segs := make([]string, 0)
	for _, s := range strings.Split(strings.Trim(path, "/"), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) > 0 && segs[0] == "v1" {
		segs = segs[1:]
	}
	req := &routeReq{segs: segs, query: query}
	if len(segs) > 0 {
		req.network = segs[0]
		for _, s := range segs[1:] {
			if s == segEths {
				s = segEthscriptions
			}
			req.rest = append(req.rest, s)
		}
	}
	return req
}

func lastSegIs(name string) func(r *routeReq) bool {
	return func(r *routeReq) bool {
		return len(r.segs) > 0 && r.segs[len(r.segs)-1] == name
	}
}

func utilityRoute(kind RouteKind) func(context.Context, *Router, *routeReq) (*Route, error) {
	return func(_ context.Context, _ *Router, r *routeReq) (*Route, error) {
		route := &Route{Kind: kind}
		// /v1/{network}/generate-... keeps its network, /v1/generate-... has none
		if len(r.segs) > 1 {
			route.Network = r.network
		}
		return route, nil
	}
}

func indexOf(segs []string, s string) int {
	for i, v := range segs {
		if v == s {
			return i
		}
	}
	return -1
}

// {network}/ethscriptions/{id}/content|data
func matchContent(r *routeReq) bool {
	i := indexOf(r.rest, segEthscriptions)
	if i < 0 || len(r.rest) < i+3 {
		return false
	}
	last := strings.ToLower(r.rest[len(r.rest)-1])
	return last == "content" || last == "data"
}

func transformContent(_ context.Context, t *Router, r *routeReq) (*Route, error) {
	if err := t.checkNetwork(r.network); err != nil {
		return nil, err
	}
	i := indexOf(r.rest, segEthscriptions)
	return &Route{Kind: RouteContent, Network: r.network, Subject: r.rest[i+1]}, nil
}

// {network}/ethscriptions/{id}/sha
func matchSha(r *routeReq) bool {
	i := indexOf(r.rest, segEthscriptions)
	return i > -1 && len(r.rest) >= i+3 && r.rest[len(r.rest)-1] == "sha"
}

func transformSha(_ context.Context, t *Router, r *routeReq) (*Route, error) {
	if err := t.checkNetwork(r.network); err != nil {
		return nil, err
	}
	return &Route{Kind: RouteSha, Network: r.network, Subject: r.rest[len(r.rest)-2]}, nil
}

// /v1/sha?of=...
func matchHash(r *routeReq) bool {
	return len(r.segs) == 1 && r.segs[0] == "sha"
}

func transformHash(_ context.Context, _ *Router, r *routeReq) (*Route, error) {
	if r.query.Get("of") == "" {
		return nil, schema.ErrMissingShaInput
	}
	return &Route{Kind: RouteHash, Subject: r.query.Get("of")}, nil
}

// /v1/snapshot/{collection}
func matchSnapshot(r *routeReq) bool {
	return len(r.segs) >= 2 && r.segs[0] == "snapshot"
}

func transformSnapshot(_ context.Context, _ *Router, r *routeReq) (*Route, error) {
	return &Route{Kind: RouteSnapshot, Network: schema.Mainnet, Subject: r.segs[len(r.segs)-1]}, nil
}

// {network}/ethscriptions/owned_by/{who}
func matchOwnedBy(r *routeReq) bool {
	i := indexOf(r.rest, segOwnedBy)
	return i > 0 && r.rest[i-1] == segEthscriptions && len(r.rest) > i+1
}

func transformOwnedBy(ctx context.Context, t *Router, r *routeReq) (*Route, error) {
	route, err := t.upstreamRoute(ctx, r)
	if err != nil {
		return nil, err
	}
	i := indexOf(r.rest, segOwnedBy)
	who := r.rest[len(r.rest)-1]
	res, err := t.resolveAddress(ctx, who, r.network, false)
	if err != nil {
		return nil, err
	}
	if res.Profile != nil {
		route.Resolved = res
	}
	route.Path = apiPath(append(append([]string{}, r.rest[:i]...), segFiltered))
	route.Query.Set("current_owner", res.Address)
	return route, nil
}

// {network}/ethscriptions
func matchPlural(r *routeReq) bool {
	return len(r.rest) > 0 && r.rest[len(r.rest)-1] == segEthscriptions
}

func transformPlural(ctx context.Context, t *Router, r *routeReq) (*Route, error) {
	route, err := t.upstreamRoute(ctx, r)
	if err != nil {
		return nil, err
	}
	route.Path = apiPath(append(append([]string{}, r.rest...), segFiltered))
	return route, nil
}

// {network}/profiles[/{who}[/info|/created|/owned]]
func matchProfiles(r *routeReq) bool {
	if len(r.rest) == 0 || r.rest[0] != segProfiles {
		return false
	}
	switch len(r.rest) {
	case 1, 2:
		return true
	case 3:
		sub := r.rest[2]
		return sub == "info" || sub == "created" || sub == "owned"
	}
	return false
}

func transformProfiles(ctx context.Context, t *Router, r *routeReq) (*Route, error) {
	route, err := t.upstreamRoute(ctx, r)
	if err != nil {
		return nil, err
	}
	route.Path = apiPath([]string{segEthscriptions, segFiltered})
	if len(r.rest) == 1 {
		route.Query.Set("mimetype", schema.ProfileMimetype)
		return route, nil
	}

	who := r.rest[1]
	sub := ""
	if len(r.rest) == 3 {
		sub = r.rest[2]
	}
	route.Subject = who
	route.Info = sub == "info"

	res, err := t.resolveAddress(ctx, who, r.network, route.Info)
	if err != nil {
		return nil, err
	}
	route.Resolved = res

	switch sub {
	case "info":
		route.Query.Set("creator", res.Address)
		route.Query.Set("mimetype", schema.ProfileMimetype)
	case "created":
		route.Query.Set("creator", res.Address)
	default: // owned and the bare per-user route
		route.Query.Set("current_owner", res.Address)
	}
	return route, nil
}

func transformPass(ctx context.Context, t *Router, r *routeReq) (*Route, error) {
	route, err := t.upstreamRoute(ctx, r)
	if err != nil {
		return nil, err
	}
	route.Path = apiPath(r.rest)
	return route, nil
}

// upstreamRoute checks the network and carries over the client query with
// creator and current_owner resolved to addresses.
func (t *Router) upstreamRoute(ctx context.Context, r *routeReq) (*Route, error) {
	if err := t.checkNetwork(r.network); err != nil {
		return nil, err
	}
	route := &Route{Kind: RouteUpstream, Network: r.network, Query: url.Values{}}
	for k, vs := range r.query {
		route.Query[k] = append([]string{}, vs...)
	}
	for _, key := range []string{"creator", "current_owner"} {
		who := route.Query.Get(key)
		if who == "" {
			continue
		}
		res, err := t.resolveAddress(ctx, who, r.network, false)
		if err != nil {
			return nil, err
		}
		if res.Profile != nil {
			route.Resolved = res
		}
		route.Query.Set(key, res.Address)
	}
	return route, nil
}

// resolveAddress lowercases address-shaped input unless always is set, and
// resolves everything else through the cached resolver.
func (t *Router) resolveAddress(ctx context.Context, who, network string, always bool) (*schema.Resolution, error) {
	if !always && ethcommon.IsHexAddress(who) {
		return &schema.Resolution{Address: strings.ToLower(who)}, nil
	}
	res, err := t.resolver.Resolve(ctx, who, network)
	if err != nil {
		return nil, err
	}
	if res == nil || res.Address == "" {
		return nil, schema.ErrIdentityNotFound
	}
	out := *res
	out.Address = strings.ToLower(out.Address)
	return &out, nil
}

func (t *Router) checkNetwork(network string) error {
	if !t.eths.IsNetwork(network) {
		return schema.ErrUnsupportedNetwork
	}
	return nil
}

func apiPath(segs []string) string {
	return "/api/" + strings.Join(segs, "/")
}
