package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// Save outcomes reported by RecordLookbookSave.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// BusinessMetrics counts storefront and CMS activity. A nil *BusinessMetrics
// is valid and records nothing.
type BusinessMetrics struct {
	lookbookSaves   *Counter
	hotspotsWritten *Counter
	imageUploads    *Counter
	uploadBytes     *Histogram
	productViews    *Counter
}

// NewBusinessMetrics registers the storefront instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BusinessMetrics{}
	var err error

	if bm.lookbookSaves, err = NewCounter(meter,
		"storefront_lookbook_saves_total", "Lookbook save attempts by outcome", "{saves}"); err != nil {
		return nil, err
	}
	if bm.hotspotsWritten, err = NewCounter(meter,
		"storefront_lookbook_hotspots_written_total", "Hotspots inserted by lookbook saves", "{hotspots}"); err != nil {
		return nil, err
	}
	if bm.imageUploads, err = NewCounter(meter,
		"storefront_image_uploads_total", "Images uploaded to object storage", "{uploads}"); err != nil {
		return nil, err
	}
	if bm.uploadBytes, err = NewHistogram(meter,
		"storefront_image_upload_size_bytes", "Size of uploaded images", "By", UploadSizeBuckets...); err != nil {
		return nil, err
	}
	if bm.productViews, err = NewCounter(meter,
		"storefront_product_views_total", "Product detail views recorded for visitors", "{views}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordLookbookSave counts one save attempt; hotspots is only counted on success.
func (bm *BusinessMetrics) RecordLookbookSave(ctx context.Context, outcome string, hotspots int) {
	if bm == nil {
		return
	}
	bm.lookbookSaves.Inc(ctx, AttrOutcome.String(outcome))
	if outcome == OutcomeSuccess && hotspots > 0 {
		bm.hotspotsWritten.Add(ctx, int64(hotspots))
	}
}

// RecordImageUpload counts a stored image and its size.
func (bm *BusinessMetrics) RecordImageUpload(ctx context.Context, backend, bucket, contentType string, size int64) {
	if bm == nil {
		return
	}
	bm.imageUploads.Inc(ctx, AttrBackend.String(backend), AttrBucket.String(bucket), AttrContentType.String(contentType))
	bm.uploadBytes.Record(ctx, float64(size), AttrBackend.String(backend))
}

// RecordProductView counts a product view.
func (bm *BusinessMetrics) RecordProductView(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.productViews.Inc(ctx)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
