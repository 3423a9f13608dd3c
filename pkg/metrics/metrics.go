package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AccessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshelf_access_denied_total",
		Help: "Channel access checks that failed, by reason",
	}, []string{"reason"})

	VideoTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshelf_video_transitions_total",
		Help: "Video lifecycle operations that changed state",
	}, []string{"operation"})

	ChannelsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidshelf_channels_created_total",
		Help: "Channels created with an owner membership",
	})

	CatalogCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshelf_catalog_cache_total",
		Help: "Catalog cache lookups by result",
	}, []string{"result"})
)
