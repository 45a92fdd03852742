// Package export renders every catalog dataset in every requested format and
// writes the documents to a Sink.
package export

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catalog/internal/catalog"
	"catalog/internal/domain"
	"catalog/internal/fields"
	"catalog/internal/logging"
	"catalog/internal/response"
	"catalog/internal/storage"
)

// OrganizationDataset names the organization requisites document.
const OrganizationDataset = "organization"

// Exporter writes rendered datasets to a sink.
type Exporter struct {
	catalog     *catalog.Repository
	factory     *response.Factory
	sink        Sink
	company     *domain.Company
	history     *storage.ExportLog
	compression Compression
	logger      *logging.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithCompany adds the organization requisites to every export.
func WithCompany(c *domain.Company) Option {
	return func(e *Exporter) { e.company = c }
}

// WithHistory records every write in the export log.
func WithHistory(l *storage.ExportLog) Option {
	return func(e *Exporter) { e.history = l }
}

// WithCompression compresses documents before they reach the sink.
func WithCompression(c Compression) Option {
	return func(e *Exporter) { e.compression = c }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExporter creates a new exporter
func NewExporter(repo *catalog.Repository, factory *response.Factory, sink Sink, opts ...Option) *Exporter {
	e := &Exporter{
		catalog:     repo,
		factory:     factory,
		sink:        sink,
		compression: CompressionNone,
		logger:      logging.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Failure is one (dataset, format) pair that could not be exported.
type Failure struct {
	Dataset string
	Format  response.Format
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s as %s: %v", f.Dataset, f.Format, f.Err)
}

// Result summarizes an export run.
type Result struct {
	RunID    string
	Written  []storage.ExportRecord
	Failures []Failure
}

// Err joins the failures, or returns nil when every document was written.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return stderrors.Join(errs...)
}

type job struct {
	dataset  string
	entities []fields.Entity
	err      error
}

// ExportAll renders every dataset in each of formats; an empty list means all
// supported formats. A failing pair is recorded in the result and does not
// stop the others. The returned error is reserved for cancellation and
// export log failures.
func (e *Exporter) ExportAll(ctx context.Context, formats []response.Format) (*Result, error) {
	if len(formats) == 0 {
		formats = e.factory.SupportedFormats()
	}

	comp, err := newCompressor(e.compression)
	if err != nil {
		return nil, err
	}
	defer comp.Close()

	res := &Result{RunID: uuid.NewString()}
	started := time.Now()
	e.logger.Info("Starting export", map[string]interface{}{
		"runID":       res.RunID,
		"formats":     len(formats),
		"compression": string(e.compression),
	})

	var records []storage.ExportRecord
	for _, j := range e.jobs() {
		for _, f := range formats {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			rec := storage.ExportRecord{RunID: res.RunID, Dataset: j.dataset, Format: string(f)}
			key := j.dataset + "." + f.Extension() + e.compression.Suffix()
			rec.Target = e.sink.Location(key)

			n, err := e.exportOne(ctx, comp, j, f, key)
			if err != nil {
				rec.Error = err.Error()
				res.Failures = append(res.Failures, Failure{Dataset: j.dataset, Format: f, Err: err})
				e.logger.Warn("Export failed", map[string]interface{}{
					logging.KeyDataset: j.dataset,
					logging.KeyFormat:  string(f),
					"error":            err.Error(),
				})
			} else {
				rec.Bytes = n
				res.Written = append(res.Written, rec)
			}
			records = append(records, rec)
		}
	}

	if e.history != nil {
		if err := e.history.Record(records); err != nil {
			return res, fmt.Errorf("record export run: %w", err)
		}
	}

	e.logger.Info("Export finished", map[string]interface{}{
		"runID":    res.RunID,
		"written":  len(res.Written),
		"failed":   len(res.Failures),
		"duration": time.Since(started).String(),
	})
	return res, nil
}

func (e *Exporter) jobs() []job {
	var jobs []job
	for _, key := range catalog.Keys() {
		entities, err := e.catalog.Dataset(key)
		jobs = append(jobs, job{dataset: key, entities: entities, err: err})
	}
	if e.company != nil {
		jobs = append(jobs, job{dataset: OrganizationDataset, entities: []fields.Entity{e.company}})
	}
	return jobs
}

func (e *Exporter) exportOne(ctx context.Context, comp *compressor, j job, f response.Format, key string) (int64, error) {
	if j.err != nil {
		return 0, j.err
	}
	enc, err := e.factory.Create(string(f))
	if err != nil {
		return 0, err
	}
	body, err := enc.Build(j.entities)
	if err != nil {
		return 0, err
	}

	data, encoding := comp.apply([]byte(body))
	if err := e.sink.Write(ctx, WriteRequest{
		Key:             key,
		Data:            data,
		ContentType:     enc.ContentType(),
		ContentEncoding: encoding,
	}); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}
