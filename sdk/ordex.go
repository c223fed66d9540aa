package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tunnckoCore/ethsgw/schema"
	"gopkg.in/h2non/gentleman.v2"
)

// OrdexCli reads item metadata from the secondary indexer.
type OrdexCli struct {
	baseUrl string
	cli     *gentleman.Client
}

func NewOrdexCli(ordexUrl string) *OrdexCli {
	ordexUrl = strings.TrimRight(ordexUrl, "/")
	return &OrdexCli{
		baseUrl: ordexUrl,
		cli:     gentleman.New().URL(ordexUrl),
	}
}

func ItemPath(id string) string {
	return fmt.Sprintf("/%s/items/%s:%s", schema.OrdexVersion, schema.OrdexChainPrefix, id)
}

// GetItemMeta returns the item metadata of a transaction hash. A non-success
// status is not an error: the meta is simply empty.
func (o *OrdexCli) GetItemMeta(ctx context.Context, id string) (*schema.OrdexMeta, error) {
	req := o.cli.Get()
	path := ItemPath(id)
	req.AddPath(path)
	req.Context.SetCancelContext(ctx)
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	metricUpstream(o.baseUrl+path, resp.StatusCode)
	if !resp.Ok {
		log.Debug("ordex item not available", "id", id, "status", resp.StatusCode)
		return &schema.OrdexMeta{}, nil
	}
	return parseOrdexMeta(resp.Bytes())
}

// content is either [] or a list of typed blocks, some without mimeType
func parseOrdexMeta(body []byte) (*schema.OrdexMeta, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid ordex response: %.64s", string(body))
	}
	meta := gjson.GetBytes(body, "meta")
	res := &schema.OrdexMeta{
		RawContent: meta.Get("rawContent").String(),
		Mimetype:   meta.Get("content.0.mimeType").String(),
	}
	if num := meta.Get("number"); num.Exists() && num.Type != gjson.Null && num.String() != "" {
		res.Number = json.Number(num.String())
	}
	return res, nil
}
