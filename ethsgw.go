package ethsgw

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/tunnckoCore/ethsgw/cache"
	"github.com/tunnckoCore/ethsgw/common"
	"github.com/tunnckoCore/ethsgw/rawdb"
	"github.com/tunnckoCore/ethsgw/schema"
	"github.com/tunnckoCore/ethsgw/sdk"
)

var log = common.NewLog("ethsgw")

type Gateway struct {
	config    schema.Config
	store     *Store
	engine    *gin.Engine
	server    *http.Server
	scheduler *gocron.Scheduler
	respCache *cache.Cache

	eths     *sdk.EthsCli
	renderer *sdk.RendererCli
	ens      *sdk.ENS

	content     *ContentResolver
	ban         *BanPatcher
	resolver    *CachedResolver
	router      *Router
	patcher     *Patcher
	snapshotter *Snapshotter
}

// New opens the configured durable store and the ENS rpc and wires the gateway.
func New(cfg schema.Config) (*Gateway, error) {
	cfg.SetDefaults()
	db, err := rawdb.Open(cfg)
	if err != nil {
		return nil, err
	}
	ens, err := sdk.NewENS(cfg.Upstream.EthRpc)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	g, err := newGateway(cfg, db, ens)
	if err != nil {
		_ = db.Close()
		ens.Close()
		return nil, err
	}
	g.ens = ens
	return g, nil
}

func newGateway(cfg schema.Config, db rawdb.KeyValueDB, names NameService) (*Gateway, error) {
	cfg.SetDefaults()
	respCache, err := cache.NewLocalCache(cache.NoExpiration)
	if err != nil {
		return nil, err
	}

	store := NewStore(db)
	eths := sdk.NewEthsCli(cfg.Upstream.Mainnet, cfg.Upstream.Testnet, cfg.TestnetName)
	content := NewContentResolver(eths, sdk.NewOrdexCli(cfg.Upstream.Ordex))
	ban := NewBanPatcher(store, content)
	resolver := NewCachedResolver(NewResolver(eths, names), store)

	g := &Gateway{
		config:      cfg,
		store:       store,
		engine:      gin.New(),
		scheduler:   gocron.NewScheduler(time.UTC),
		respCache:   respCache,
		eths:        eths,
		renderer:    sdk.NewRendererCli(cfg.Upstream.Renderer),
		content:     content,
		ban:         ban,
		resolver:    resolver,
		router:      NewRouter(eths, resolver),
		patcher:     NewPatcher(ban),
		snapshotter: NewSnapshotter(eths),
	}
	g.registerRoutes()
	return g, nil
}

func (s *Gateway) Run() {
	common.NewMetricServer(s.config.MetricPort)
	s.server = &http.Server{Addr: s.config.Port, Handler: s.engine}
	go s.runJobs()
	go s.runAPI()
}

func (s *Gateway) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			log.Error("s.server.Shutdown(ctx)", "err", err)
		}
	}
	s.scheduler.Stop()
	if err := s.store.Close(); err != nil {
		log.Error("s.store.Close()", "err", err)
	}
	if s.ens != nil {
		s.ens.Close()
	}
}
