package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tunnckoCore/ethsgw/common"
	"github.com/tunnckoCore/ethsgw/schema"
	"gopkg.in/h2non/gentleman.v2"
)

var log = common.NewLog("sdk")

// EthsCli talks to the primary ethscriptions index, one base url per network.
type EthsCli struct {
	mainnetUrl  string
	testnetUrl  string
	testnetName string

	mainnet *gentleman.Client
	testnet *gentleman.Client
}

func NewEthsCli(mainnetUrl, testnetUrl, testnetName string) *EthsCli {
	mainnetUrl = strings.TrimRight(mainnetUrl, "/")
	testnetUrl = strings.TrimRight(testnetUrl, "/")
	return &EthsCli{
		mainnetUrl:  mainnetUrl,
		testnetUrl:  testnetUrl,
		testnetName: testnetName,
		mainnet:     gentleman.New().URL(mainnetUrl),
		testnet:     gentleman.New().URL(testnetUrl),
	}
}

// Networks lists the networks this client can address.
func (e *EthsCli) Networks() []string {
	return []string{schema.Mainnet, e.testnetName}
}

func (e *EthsCli) IsNetwork(network string) bool {
	return network == schema.Mainnet || network == e.testnetName
}

// BaseUrl returns the upstream origin of the network; anything but the testnet is mainnet.
func (e *EthsCli) BaseUrl(network string) string {
	if network == e.testnetName {
		return e.testnetUrl
	}
	return e.mainnetUrl
}

func (e *EthsCli) cli(network string) *gentleman.Client {
	if network == e.testnetName {
		return e.testnet
	}
	return e.mainnet
}

// Get issues GET {base}{path}?{query} and returns the body of a 2xx response.
func (e *EthsCli) Get(ctx context.Context, network, path string, query url.Values) ([]byte, error) {
	req := e.cli(network).Get()
	req.AddPath(path)
	for k, vs := range query {
		for _, v := range vs {
			req.AddQuery(k, v)
		}
	}
	target := e.BaseUrl(network) + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return send(ctx, req, target)
}

func (e *EthsCli) GetEthscription(ctx context.Context, network, idOrNumber string) (*schema.Ethscription, error) {
	by, err := e.Get(ctx, network, "/api/ethscriptions/"+idOrNumber, nil)
	if err != nil {
		return nil, err
	}
	eth := &schema.Ethscription{}
	if err = json.Unmarshal(by, eth); err != nil {
		return nil, err
	}
	return eth, nil
}

func (e *EthsCli) Exists(ctx context.Context, network, sha string) (*schema.ExistsResult, error) {
	by, err := e.Get(ctx, network, "/api/ethscriptions/exists/"+sha, nil)
	if err != nil {
		return nil, err
	}
	res := &schema.ExistsResult{}
	if err = json.Unmarshal(by, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *EthsCli) Filtered(ctx context.Context, network string, query url.Values) (*schema.FilteredResult, error) {
	by, err := e.Get(ctx, network, "/api/ethscriptions/filtered", query)
	if err != nil {
		return nil, err
	}
	res := &schema.FilteredResult{}
	if err = json.Unmarshal(by, res); err != nil {
		return nil, err
	}
	return res, nil
}

func send(ctx context.Context, req *gentleman.Request, target string) ([]byte, error) {
	req.Context.SetCancelContext(ctx)
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	metricUpstream(target, resp.StatusCode)
	if !resp.Ok {
		return nil, fmt.Errorf("%w. Status: %d - %s ! %s", schema.ErrUpstreamStatus, resp.StatusCode, http.StatusText(resp.StatusCode), target)
	}
	return resp.Bytes(), nil
}
