package ethsgw

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunnckoCore/ethsgw/common"
	"github.com/tunnckoCore/ethsgw/schema"
)

func newTestRouter(t *testing.T) (*Router, *fakeApi) {
	api := newFakeApi(t)
	api.json(filteredPath, `{"total_count":0,"ethscriptions":[]}`)
	api.json("/api/ethscriptions/exists/"+common.Sha256String("data:,hirsch"),
		`{"result":true,"ethscription":`+ethJson(hash1, addrB, addrA, false)+`}`)
	api.json("/api/ethscriptions/exists/"+common.Sha256String("data:,ghost"), `{"result":false}`)
	names := &fakeNames{names: map[string]string{"foo.eth": addrB}}
	resolver := NewCachedResolver(NewResolver(api.eths(), names), newTestStore(t))
	return NewRouter(api.eths(), resolver), api
}

func TestRouter_Translate(t *testing.T) {
	router, _ := newTestRouter(t)
	mixed := "0xA20C07F94A127fD76E61fbeA1019cCe759225002"

	cases := []struct {
		path    string
		query   string
		kind    RouteKind
		network string
		up      string
		upQuery url.Values
		subject string
	}{
		{"/v1/mainnet/generate-account", "", RouteAccount, "mainnet", "", nil, ""},
		{"/v1/generate-private-key", "", RoutePrivateKey, "", "", nil, ""},
		{"/v1/goerli/generate-mnemonic", "", RouteMnemonic, "goerli", "", nil, ""},
		{"/v1/mainnet/eths/" + hash1 + "/content", "", RouteContent, "mainnet", "", nil, hash1},
		{"/v1/mainnet/ethscriptions/123/DATA", "noscale=1", RouteContent, "mainnet", "", nil, "123"},
		{"/v1/goerli/eths/123/sha", "full=1", RouteSha, "goerli", "", nil, "123"},
		{"/v1/sha", "of=hello", RouteHash, "", "", nil, "hello"},
		{"/v1/snapshot/punks", "only=holders", RouteSnapshot, "mainnet", "", nil, "punks"},
		{"/v1/mainnet/eths", "", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{}, ""},
		{"/v1/mainnet/ethscriptions/", "page=2", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"page": {"2"}}, ""},
		{"/v1/mainnet/eths/filtered", "creator=" + mixed, RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"creator": {addrA}}, ""},
		{"/v1/mainnet/eths/filtered", "current_owner=hirsch&mimetype=text/plain", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"current_owner": {addrA}, "mimetype": {"text/plain"}}, ""},
		{"/v1/mainnet/eths/owned_by/foo.eth", "", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"current_owner": {addrB}}, ""},
		{"/v1/mainnet/eths/owned_by/" + mixed, "", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"current_owner": {addrA}}, ""},
		{"/v1/mainnet/eths/exists/abc", "", RouteUpstream, "mainnet", "/api/ethscriptions/exists/abc", url.Values{}, ""},
		{"/v1/mainnet/eths/" + hash1, "", RouteUpstream, "mainnet", "/api/ethscriptions/" + hash1, url.Values{}, ""},
		{"/v1/goerli/collections", "", RouteUpstream, "goerli", "/api/collections", url.Values{}, ""},
		{"/v1/goerli/collections/punks", "", RouteUpstream, "goerli", "/api/collections/punks", url.Values{}, ""},
		{"/v1/mainnet/profiles", "", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"mimetype": {schema.ProfileMimetype}}, ""},
		{"/v1/mainnet/profiles/hirsch", "", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"current_owner": {addrA}}, "hirsch"},
		{"/v1/mainnet/profiles/hirsch/owned", "", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"current_owner": {addrA}}, "hirsch"},
		{"/v1/mainnet/profiles/foo.eth/created", "", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"creator": {addrB}}, "foo.eth"},
		{"/v1/mainnet/profiles/" + mixed + "/info", "", RouteUpstream, "mainnet", "/api/ethscriptions/filtered", url.Values{"creator": {addrA}, "mimetype": {schema.ProfileMimetype}}, mixed},
	}
	for _, c := range cases {
		query, err := url.ParseQuery(c.query)
		require.NoError(t, err)
		route, err := router.Translate(context.Background(), c.path, query)
		require.NoError(t, err, c.path)
		assert.Equal(t, c.kind, route.Kind, c.path)
		assert.Equal(t, c.network, route.Network, c.path)
		assert.Equal(t, c.subject, route.Subject, c.path)
		if c.kind == RouteUpstream {
			assert.Equal(t, c.up, route.Path, c.path)
			for k := range c.upQuery {
				assert.Equal(t, c.upQuery.Get(k), route.Query.Get(k), c.path+" "+k)
			}
		}
		assert.Equal(t, query, route.Params, c.path)
	}
}

func TestRouter_InfoAlwaysResolves(t *testing.T) {
	router, api := newTestRouter(t)
	route, err := router.Translate(context.Background(), "/v1/mainnet/profiles/"+addrA+"/info", url.Values{})
	require.NoError(t, err)
	assert.True(t, route.Info)
	require.NotNil(t, route.Resolved)
	assert.Equal(t, addrA, route.Resolved.Address)
	assert.Equal(t, 1, api.Calls(filteredPath))

	// plain address routes never touch the resolver
	_, err = router.Translate(context.Background(), "/v1/mainnet/profiles/"+addrB+"/created", url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, api.Calls(filteredPath))
}

func TestRouter_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	_, err := router.Translate(context.Background(), "/v1/sepolia/eths", url.Values{})
	assert.ErrorIs(t, err, schema.ErrUnsupportedNetwork)
	_, err = router.Translate(context.Background(), "/v1/sepolia/eths/1/content", url.Values{})
	assert.ErrorIs(t, err, schema.ErrUnsupportedNetwork)
	_, err = router.Translate(context.Background(), "/v1/sha", url.Values{})
	assert.ErrorIs(t, err, schema.ErrMissingShaInput)
	_, err = router.Translate(context.Background(), "/v1/mainnet/eths/owned_by/ghost", url.Values{})
	assert.ErrorIs(t, err, schema.ErrIdentityNotFound)
	_, err = router.Translate(context.Background(), "/v1/mainnet/eths", url.Values{"creator": {"ghost"}})
	assert.ErrorIs(t, err, schema.ErrIdentityNotFound)
}

func TestRouter_ContentWinsOverPlural(t *testing.T) {
	router, api := newTestRouter(t)
	route, err := router.Translate(context.Background(), "/v1/mainnet/ethscriptions/owned_by/content", url.Values{"creator": {"ghost"}})
	require.NoError(t, err)
	assert.Equal(t, RouteContent, route.Kind)
	assert.Equal(t, "owned_by", route.Subject)
	assert.Equal(t, 0, api.Total())
}
