package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	BuildLatency     = metric.NewHistogram("1h1m")
	RelaxRounds      = metric.NewHistogram("1h1m")
	QueryLatency     = metric.NewHistogram("1m1s")
	QueriesPerSecond = metric.NewCounter("10s1s")
	CacheHits        = metric.NewCounter("10s1s")
	RouteChanges     = metric.NewCounter("1h1m")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("thaum:BuildLatency (ms)", BuildLatency)
	expvar.Publish("thaum:RelaxRounds", RelaxRounds)
	expvar.Publish("thaum:RouteChanges", RouteChanges)

	expvar.Publish("thaum:Queries/s", QueriesPerSecond)
	expvar.Publish("thaum:CacheHits/s", CacheHits)
	expvar.Publish("thaum:QueryLatency (µs)", QueryLatency)
}
