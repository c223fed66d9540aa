package ethsgw

import (
	"github.com/tunnckoCore/ethsgw/schema"
)

func (s *Gateway) runJobs() {
	s.scheduler.Every(1).Minute().SingletonMode().Do(s.updateCacheGauges)
	s.scheduler.StartAsync()
}

func (s *Gateway) updateCacheGauges() {
	for _, bucket := range schema.AllBuckets {
		n, err := s.store.Count(bucket)
		if err != nil {
			log.Error("s.store.Count(bucket)", "err", err, "bucket", bucket)
			continue
		}
		metricCacheEntries(bucket, n)
	}
	metricResponseCache(s.respCache.Cache.Len())
}
