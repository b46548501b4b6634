package main

import (
	"media-catalog/internal/catalog"
	"media-catalog/internal/filesystem"
	"media-catalog/internal/listing"
	"media-catalog/internal/metrics"
	"media-catalog/internal/scan"
	"media-catalog/internal/startup"
	"media-catalog/internal/thumbnail"
)

// services are the long-lived components shared by every command.
type services struct {
	lister     *listing.OSLister
	classifier *catalog.Classifier
	scans      *scan.Coordinator
	previews   *thumbnail.Cache
	codec      string
}

func newServices(config *startup.Config) (*services, error) {
	retry := filesystem.DefaultRetryConfig()
	retry.VolumeResolver = filesystem.NewVolumeResolver(map[string]string{
		"media": config.MediaRoot,
	})

	lister := listing.NewOSLister(retry)

	codec := thumbnail.NewCodec(config.PreviewUseVips, retry)
	codecName := "imaging"
	if _, ok := codec.(*thumbnail.VipsCodec); ok {
		codecName = "libvips"
	}

	pipeline := thumbnail.NewPipeline(codec, thumbnail.PipelineConfig{
		Quality: config.PreviewQuality,
		Retry:   retry,
	})

	cacheConfig := thumbnail.DefaultCacheConfig()
	cacheConfig.CapacityBytes = config.PreviewCacheBytes
	previews, err := thumbnail.NewCache(pipeline, cacheConfig)
	if err != nil {
		return nil, err
	}

	scans := scan.NewCoordinator(lister, scan.Config{
		BatchSize:     config.ScanBatchSize,
		FlushInterval: config.ScanFlushInterval,
		SkipHidden:    config.ScanSkipHidden,
	})

	return &services{
		lister:     lister,
		classifier: catalog.NewClassifier(catalog.DefaultTable()),
		scans:      scans,
		previews:   previews,
		codec:      codecName,
	}, nil
}

// GetStats implements metrics.StatsProvider.
func (s *services) GetStats() metrics.Stats {
	cache := s.previews.Stats()
	return metrics.Stats{
		PreviewCacheBytes:    cache.UsedBytes,
		PreviewCacheCapacity: cache.CapacityBytes,
		PreviewCacheEntries:  cache.Entries,
		ScanActive:           s.scans.IsRunning(),
	}
}

func (s *services) close() {
	if s.codec == "libvips" {
		thumbnail.ShutdownVips()
	}
}
