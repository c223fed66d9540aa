package ethsgw

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tunnckoCore/ethsgw/common"
	"github.com/tunnckoCore/ethsgw/schema"
)

const welcome = "Welcome to the ethscriptions API. It's a proxy with few patches of the official one, like including banned content URIs, automatic resolving ethscriptions handles/domains & ENS names, versioning, and unified response format."

var (
	versions      = []string{"v1"}
	mainEndpoints = []string{
		"/profiles - track latest 'profiles' ethscriptions",
		"/profiles/{address_or_ens_or_handle} - changes of user's profile",
		"/profiles/{address_or_ens_or_handle}?filters=here",
		"/profiles/{address_or_ens_or_handle}/info - only the latest profile state, supports filters too",
		"/profiles/{address_or_ens_or_handle}/created - only the ethscriptions created by the user, supports filters too",
		"/profiles/{address_or_ens_or_handle}/owned - only ethscriptions owned by the user, supports filters too. Alias of /eths/owned_by/{address_or_ens_or_handle}",
		"",
		"/collections - list of all collections",
		"/collections/{collection_name} - get collection by name",
		"/ethscriptions - alias of /eths",
		"",
		"/eths - all latest ethscriptions, alias of /eths/filtered",
		"/eths/exists/{sha} - get ethscription by sha256 of the content_uri",
		"/eths/filtered?filters=here - use `only=creator,id,timestamp` to get only those fields; use `without=creator,id` to get all fields except those",
		"/eths/owned_by/{address_or_ens_or_handle} - ethscriptions owned by user",
		"/eths/{ethscription_id_or_number} - get ethscription by id or number",
		"/eths/{ethscription_id_or_number}/sha - get ethscription and it's sha",
		"/eths/{ethscription_id_or_number}/content - upscaled png of the content, `noscale=1` for the raw content",
	}
)

func (s *Gateway) registerRoutes() {
	r := s.engine
	r.Use(gin.Recovery(), common.RequestIdMiddleware(), common.CORSMiddleware())
	if s.config.RateLimit > 0 {
		r.Use(common.LimiterMiddleware(s.config.RateLimit, s.config.RatePeriod, nil))
	}

	r.GET("/", s.index)
	r.GET("/clear-db", s.clearDB)
	r.GET("/v1/*path", s.proxy)
}

func (s *Gateway) runAPI() {
	log.Info("Starting api server", "listen", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func (s *Gateway) endpoints() []string {
	eps := []string{
		"/v1/sha?of={dataURI} - create sha256 of a given data URI or text; if it starts with `data:`, it will be used as is; otherwise, you can additionally pass `type` and/or `isBase64` query params",
		"/v1/snapshot/{collection_name} - can take a while (~1min per 10k); create a snapshot of a given collection; possible `only=` filters: holders, creators, items, stats, unique",
		"",
	}
	for i, network := range s.eths.Networks() {
		if i > 0 {
			eps = append(eps, "", "")
		}
		for _, ep := range mainEndpoints {
			if ep == "" {
				eps = append(eps, "")
				continue
			}
			for _, v := range versions {
				eps = append(eps, "/"+v+"/"+network+ep)
			}
		}
	}
	return eps
}

func (s *Gateway) index(c *gin.Context) {
	c.JSON(http.StatusOK, schema.RespIndex{
		Message:   welcome,
		Networks:  s.eths.Networks(),
		Versions:  versions,
		Endpoints: s.endpoints(),
	})
}

func (s *Gateway) clearDB(c *gin.Context) {
	count, err := s.store.ClearAll()
	if err != nil {
		log.Error("s.store.ClearAll()", "err", err)
		errorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespCleared{Deleted: true, Count: count})
}

func (s *Gateway) proxy(c *gin.Context) {
	ctx := c.Request.Context()
	params := c.Request.URL.Query()
	route, err := s.router.Translate(ctx, c.Request.URL.Path, params)
	if err != nil {
		failureResponse(c, err)
		return
	}

	switch route.Kind {
	case RouteAccount:
		acc, err := CreateAccount("")
		if err != nil {
			failureResponse(c, err)
			return
		}
		dataResponse(c, acc)
	case RoutePrivateKey:
		key, err := GeneratePrivateKey()
		if err != nil {
			failureResponse(c, err)
			return
		}
		dataResponse(c, key)
	case RouteMnemonic:
		mnemonic, err := GenerateMnemonic()
		if err != nil {
			failureResponse(c, err)
			return
		}
		dataResponse(c, mnemonic)
	case RouteContent:
		s.serveContent(c, route)
	case RouteSha:
		s.serveSha(c, route)
	case RouteHash:
		mimetype := params.Get("mimetype")
		if mimetype == "" {
			mimetype = params.Get("type")
		}
		msg := common.BuildDataURI(route.Subject, mimetype, params.Get("isBase64") != "")
		dataResponse(c, schema.RespSha{Sha: common.Sha256String(msg)})
	case RouteSnapshot:
		s.serveSnapshot(c, route)
	default:
		s.serveUpstream(c, route)
	}
}

func (s *Gateway) serveUpstream(c *gin.Context, route *Route) {
	ctx := c.Request.Context()
	body, err := s.eths.Get(ctx, route.Network, route.Path, route.Query)
	if err != nil {
		log.Error("s.eths.Get(ctx,network,path,query)", "err", err, "path", route.Path, "network", route.Network)
		failureResponse(c, err)
		return
	}
	env, err := s.patcher.Patch(ctx, body, route)
	if err != nil {
		log.Error("s.patcher.Patch(ctx,body,route)", "err", err, "path", route.Path)
		failureResponse(c, err)
		return
	}
	if err = Project(route.Params, env); err != nil {
		failureResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, env)
}

func (s *Gateway) serveSha(c *gin.Context, route *Route) {
	meta, err := s.content.FetchContent(c.Request.Context(), route.Subject, nil, route.Network)
	if err != nil {
		failureResponse(c, err)
		return
	}
	resp := schema.RespSha{
		Sha: common.Sha256String(meta.ContentUri),
		Id:  meta.Id,
	}
	if route.Params.Get("full") != "" {
		resp.Mimetype = meta.Mimetype
		resp.ContentUri = meta.ContentUri
		resp.EthscriptionNumber = meta.Number.String()
		resp.TransactionHash = meta.Id
	}
	c.Header("Cache-Control", schema.CacheControl)
	dataResponse(c, resp)
}

func (s *Gateway) serveSnapshot(c *gin.Context, route *Route) {
	res, err := s.snapshotter.Snapshot(c.Request.Context(), route.Subject, splitList(route.Params.Get("only")))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

func dataResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, schema.Envelope{Data: data})
}

// failureResponse renders a missing identity as an empty result and every
// other failure as {error}. Both are 200; clients read the body.
func failureResponse(c *gin.Context, err error) {
	if errors.Is(err, schema.ErrIdentityNotFound) {
		dataResponse(c, nil)
		return
	}
	errorResponse(c, err.Error())
}

func errorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusOK, schema.RespErr{
		Err: err,
	})
}
