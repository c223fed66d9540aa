package ethsgw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tunnckoCore/ethsgw/rawdb"
	"github.com/tunnckoCore/ethsgw/schema"
	"github.com/tunnckoCore/ethsgw/sdk"
)

const (
	addrA = "0xa20c07f94a127fd76e61fbea1019cce759225002"
	addrB = "0x4976fb03c32e5b8cfe2b6ccb31c09ba78ebaba41"
	hash1 = "0x1111111111111111111111111111111111111111111111111111111111111111"
	hash2 = "0x2222222222222222222222222222222222222222222222222222222222222222"
)

// fakeApi plays the primary index, the secondary indexer and the renderer.
type fakeApi struct {
	srv    *httptest.Server
	lock   sync.Mutex
	calls  map[string]int
	routes map[string]http.HandlerFunc // exact path, or prefix ending in "/"
}

func newFakeApi(t *testing.T) *fakeApi {
	f := &fakeApi{calls: make(map[string]int), routes: make(map[string]http.HandlerFunc)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeApi) serve(w http.ResponseWriter, r *http.Request) {
	f.lock.Lock()
	f.calls[r.URL.Path]++
	h, ok := f.routes[r.URL.Path]
	if !ok {
		best := ""
		for p, fn := range f.routes {
			if strings.HasSuffix(p, "/") && strings.HasPrefix(r.URL.Path, p) && len(p) > len(best) {
				best, h = p, fn
			}
		}
		ok = best != ""
	}
	f.lock.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h(w, r)
}

func (f *fakeApi) json(path, body string) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func (f *fakeApi) handle(path string, h http.HandlerFunc) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.routes[path] = h
}

func (f *fakeApi) Calls(path string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls[path]
}

func (f *fakeApi) Total() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeApi) eths() *sdk.EthsCli {
	return sdk.NewEthsCli(f.srv.URL, f.srv.URL, schema.TestnetGoerli)
}

type fakeNames struct {
	names map[string]string
	lock  sync.Mutex
	calls int
}

func (n *fakeNames) ResolveName(ctx context.Context, name string) (string, error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.calls++
	return n.names[strings.ToLower(name)], nil
}

func newTestStore(t *testing.T) *Store {
	db, err := rawdb.NewBoltDB(t.TempDir())
	require.NoError(t, err)
	s := NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestGateway(t *testing.T, api *fakeApi, names NameService) *Gateway {
	gin.SetMode(gin.TestMode)
	db, err := rawdb.NewBoltDB(t.TempDir())
	require.NoError(t, err)
	cfg := schema.Config{
		Upstream: schema.Upstream{
			Mainnet:  api.srv.URL,
			Testnet:  api.srv.URL,
			Ordex:    api.srv.URL,
			Renderer: api.srv.URL,
		},
	}
	g, err := newGateway(cfg, db, names)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.store.Close() })
	return g
}

func (s *Gateway) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.engine.ServeHTTP(w, req)
	return w
}

func ethJson(hash, creator, owner string, redacted bool) string {
	r := "false"
	if redacted {
		r = "true"
	}
	return `{"transaction_hash":"` + hash + `","creator":"0x` + strings.ToUpper(creator[2:]) +
		`","current_owner":"` + owner + `","ethscription_number":7,"creation_timestamp":"2023-06-18T10:00:00.000Z",` +
		`"mimetype":"text/plain","content_uri":"data:,upstream","block_number":"17500000",` +
		`"image_removed_by_request_of_rights_holder":` + r + `}`
}
