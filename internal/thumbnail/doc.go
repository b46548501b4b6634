// Package thumbnail produces bounded JPEG previews of image files and keeps
// the decoded bitmaps in a size-bounded LRU cache.
//
// A preview is made in three steps. The source is probed for its pixel
// dimensions, decoded at the integer downsample factor
//
//	factor = max(1, floor(min(srcW/targetW, srcH/targetH)))
//
// and fitted into the target box if still larger. The bitmap is cached, and
// every request encodes it to JPEG afresh, so a hit returns the same bytes as
// the miss that filled it.
//
// Two codecs are provided. [VipsCodec] shrinks during decode through libvips
// and needs [InitVips]. [ImagingCodec] uses the standard library decoders
// plus golang.org/x/image for BMP, TIFF and WebP; it materializes the full
// source before downsampling and refuses sources over [MaxSourcePixels].
//
//	codec := thumbnail.NewCodec(cfg.UseVips, filesystem.DefaultRetryConfig())
//	previews, err := thumbnail.NewCache(
//	    thumbnail.NewPipeline(codec, thumbnail.DefaultPipelineConfig()),
//	    thumbnail.DefaultCacheConfig(),
//	)
//	data, err := previews.Get(ctx, "/media/a.jpg", 800, 800)
//
// Failed requests return a [*PreviewError] wrapping [ErrNotFound],
// [ErrDecode], [ErrEncode] or [ErrInvalidTarget], and never change the cache.
package thumbnail
