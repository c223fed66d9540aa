package sdk

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunnckoCore/ethsgw/schema"
)

func TestEthsCli_BaseUrl(t *testing.T) {
	cli := NewEthsCli("https://main.example/", "https://test.example", "goerli")
	assert.Equal(t, "https://main.example", cli.BaseUrl(schema.Mainnet))
	assert.Equal(t, "https://test.example", cli.BaseUrl("goerli"))
	assert.True(t, cli.IsNetwork("goerli"))
	assert.False(t, cli.IsNetwork("sepolia"))
	assert.Equal(t, []string{"mainnet", "goerli"}, cli.Networks())
}

func TestEthsCli_Filtered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ethscriptions/filtered", r.URL.Path)
		assert.Equal(t, "0xabc", r.URL.Query().Get("creator"))
		w.Write([]byte(`{"total_count":1,"ethscriptions":[{"transaction_hash":"0x01","creator":"0xABC","current_owner":"0xDEF","foo":"bar"}]}`))
	}))
	defer srv.Close()

	cli := NewEthsCli(srv.URL, srv.URL, "goerli")
	res, err := cli.Filtered(context.Background(), schema.Mainnet, url.Values{"creator": {"0xabc"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalCount)
	require.Len(t, res.Ethscriptions, 1)
	assert.Equal(t, "0x01", res.Ethscriptions[0].TransactionHash)
	assert.Equal(t, `"bar"`, string(res.Ethscriptions[0].Extra["foo"]))
}

func TestEthsCli_RequestContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ethscriptions/exists/0xsha", r.URL.Path)
		w.Write([]byte(`{"result":true,"ethscription":{"transaction_hash":"0x01"}}`))
	}))
	defer srv.Close()

	cli := NewEthsCli(srv.URL+"/", srv.URL+"/", "goerli")
	ctx, cancel := context.WithCancel(context.Background())
	res, err := cli.Exists(ctx, "goerli", "0xsha")
	require.NoError(t, err)
	assert.True(t, res.Result)
	assert.Equal(t, "0x01", res.Ethscription.TransactionHash)

	cancel()
	_, err = cli.Exists(ctx, schema.Mainnet, "0xsha")
	assert.Error(t, err)
}

func TestEthsCli_StatusNotOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cli := NewEthsCli(srv.URL, srv.URL, "goerli")
	_, err := cli.GetEthscription(context.Background(), schema.Mainnet, "1")
	assert.True(t, errors.Is(err, schema.ErrUpstreamStatus))
	assert.Contains(t, err.Error(), "Status: 502")
}

func TestOrdexCli_GetItemMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0.1/items/ETHEREUM_ETHSCRIPTION:0xaa":
			w.Write([]byte(`{"meta":{"number":42,"rawContent":"data:image/png;base64,AA==","content":[{"mimeType":"image/png"}]}}`))
		case "/v0.1/items/ETHEREUM_ETHSCRIPTION:0xbb":
			w.Write([]byte(`{"meta":{"rawContent":"data:,hi","content":[{"@type":"TEXT"}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cli := NewOrdexCli(srv.URL)
	meta, err := cli.GetItemMeta(context.Background(), "0xaa")
	require.NoError(t, err)
	assert.Equal(t, "42", meta.Number.String())
	assert.Equal(t, "image/png", meta.Mimetype)
	assert.Equal(t, "data:image/png;base64,AA==", meta.RawContent)

	meta, err = cli.GetItemMeta(context.Background(), "0xbb")
	require.NoError(t, err)
	assert.Equal(t, "", meta.Mimetype)
	assert.Equal(t, "", meta.Number.String())

	meta, err = cli.GetItemMeta(context.Background(), "0xcc")
	require.NoError(t, err)
	assert.Equal(t, &schema.OrdexMeta{}, meta)
}

func TestRendererCli_GetPng(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ethscriptions/png/7", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png"))
	}))
	defer srv.Close()

	cli := NewRendererCli(srv.URL + "/")
	assert.Equal(t, srv.URL+"/api/ethscriptions/png/7", cli.PngUrl("7"))
	resp, err := cli.GetPng(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "image/png", http.Header(resp.Header).Get("Content-Type"))
	assert.Equal(t, []byte("png"), resp.Body)
}

func TestNameHash(t *testing.T) {
	assert.Equal(t, [32]byte{}, NameHash(""))
	eth := NameHash("eth")
	assert.Equal(t, "93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae", hex.EncodeToString(eth[:]))
	foo := NameHash("foo.eth")
	assert.Equal(t, "de9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f", hex.EncodeToString(foo[:]))
}

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName(" TunnckoCore.ETH ")
	require.NoError(t, err)
	assert.Equal(t, "tunnckocore.eth", name)
}

type fakeCaller struct {
	resolvers map[ethcommon.Address]ethcommon.Address // contract -> answer
	calls     int
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls++
	addr, ok := f.resolvers[*msg.To]
	if !ok {
		return nil, nil
	}
	return ensAbi.Methods["addr"].Outputs.Pack(addr)
}

func TestENS_ResolveName(t *testing.T) {
	resolver := ethcommon.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41")
	owner := ethcommon.HexToAddress("0xA20C07F94A127fD76E61fbeA1019cCe759225002")
	caller := &fakeCaller{resolvers: map[ethcommon.Address]ethcommon.Address{
		EnsRegistry: resolver,
		resolver:    owner,
	}}
	ens := NewENSWithCaller(caller)

	addr, err := ens.ResolveName(context.Background(), "tunnckocore.eth")
	require.NoError(t, err)
	assert.Equal(t, owner.Hex(), addr)
	assert.Equal(t, 2, caller.calls)

	// registry without a resolver record
	ens = NewENSWithCaller(&fakeCaller{resolvers: map[ethcommon.Address]ethcommon.Address{
		EnsRegistry: {},
	}})
	addr, err = ens.ResolveName(context.Background(), "nobody.eth")
	require.NoError(t, err)
	assert.Equal(t, "", addr)
}
