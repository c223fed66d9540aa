package ethsgw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tunnckoCore/ethsgw/common"
	"github.com/tunnckoCore/ethsgw/schema"
	"github.com/vincent-petithory/dataurl"
)

// serveContent returns the raw content of an ethscription with noscale set,
// otherwise its upscaled png from the renderer. Renders are kept in memory
// for the process lifetime.
func (s *Gateway) serveContent(c *gin.Context, route *Route) {
	ctx := c.Request.Context()
	meta, err := s.content.FetchContent(ctx, route.Subject, nil, route.Network)
	if err != nil {
		failureResponse(c, err)
		return
	}

	if route.Params.Get("noscale") != "" {
		du, err := dataurl.DecodeString(meta.ContentUri)
		if err != nil {
			log.Warn("undecodable content uri", "id", meta.Id, "err", err)
			errorResponse(c, err.Error())
			return
		}
		c.Header("Cache-Control", schema.CacheControl)
		c.Data(http.StatusOK, du.ContentType(), du.Data)
		return
	}

	pngUrl := s.renderer.PngUrl(route.Subject)
	if cached, ok := s.respCache.GetResponse(pngUrl); ok {
		writeCached(c, cached)
		return
	}
	resp, err := s.renderer.GetPng(ctx, route.Subject)
	if err != nil {
		failureResponse(c, err)
		return
	}
	if resp.Status < 200 || resp.Status > 299 {
		log.Error("upscaling failure", "url", pngUrl, "status", resp.Status)
		errorResponse(c, schema.ErrUpscaling.Error())
		return
	}
	if err = s.respCache.SetResponse(pngUrl, *resp); err != nil {
		log.Error("s.respCache.SetResponse(pngUrl,resp)", "err", err, "url", pngUrl)
	}
	writeCached(c, resp)
}

func writeCached(c *gin.Context, resp *schema.CachedResponse) {
	h := c.Writer.Header()
	for k, vs := range resp.Header {
		switch http.CanonicalHeaderKey(k) {
		case "Content-Length", "Transfer-Encoding", "Connection":
			continue
		}
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	common.SetCORSHeaders(h)
	h.Set("Cache-Control", schema.CacheControl)
	c.Data(resp.Status, h.Get("Content-Type"), resp.Body)
}
