package sdk

import (
	"context"
	"strings"

	"github.com/tunnckoCore/ethsgw/schema"
	"gopkg.in/h2non/gentleman.v2"
)

// RendererCli fetches upscaled png renders of ethscriptions.
type RendererCli struct {
	baseUrl string
	cli     *gentleman.Client
}

func NewRendererCli(rendererUrl string) *RendererCli {
	rendererUrl = strings.TrimRight(rendererUrl, "/")
	return &RendererCli{
		baseUrl: rendererUrl,
		cli:     gentleman.New().URL(rendererUrl),
	}
}

func (r *RendererCli) PngUrl(idOrNumber string) string {
	return r.baseUrl + pngPath(idOrNumber)
}

func pngPath(idOrNumber string) string {
	return "/api/ethscriptions/png/" + idOrNumber
}

// GetPng returns the render response whatever its status; callers decide what a failure is.
func (r *RendererCli) GetPng(ctx context.Context, idOrNumber string) (*schema.CachedResponse, error) {
	req := r.cli.Get()
	req.AddPath(pngPath(idOrNumber))
	req.Context.SetCancelContext(ctx)
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	metricUpstream(r.PngUrl(idOrNumber), resp.StatusCode)
	return &schema.CachedResponse{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   resp.Bytes(),
	}, nil
}
