package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog/internal/export"
	"catalog/internal/response"
	"catalog/internal/storage"
)

var (
	exportFormats     string
	exportDir         string
	exportS3Bucket    string
	exportS3Prefix    string
	exportCompression string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every dataset to files or S3",
	Long: `Render every dataset in every requested format and write one document
per pair, named <dataset>.<ext>. Documents go to export.dir, or to S3 when a
bucket is configured. A failing pair is reported and does not stop the others.

Examples:
  catalog export
  catalog export --format csv,json --dir out
  catalog export --s3-bucket reports --s3-prefix catalog/daily --compression zstd`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormats, "format", "", "Comma-separated formats (default: all)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Output directory (default: export.dir)")
	exportCmd.Flags().StringVar(&exportS3Bucket, "s3-bucket", "", "Upload to this S3 bucket (default: export.s3Bucket)")
	exportCmd.Flags().StringVar(&exportS3Prefix, "s3-prefix", "", "Key prefix inside the bucket (default: export.s3Prefix)")
	exportCmd.Flags().StringVar(&exportCompression, "compression", "", "none or zstd (default: export.compression)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx := cmd.Context()

	repo, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	var formats []response.Format
	for _, id := range splitList(exportFormats) {
		f, err := response.ParseFormat(id)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	compression, err := export.ParseCompression(firstNonEmpty(exportCompression, cfg.Export.Compression))
	if err != nil {
		return err
	}

	var sink export.Sink
	if bucket := firstNonEmpty(exportS3Bucket, cfg.Export.S3Bucket); bucket != "" {
		sink, err = export.NewS3SinkFromEnv(ctx, bucket, firstNonEmpty(exportS3Prefix, cfg.Export.S3Prefix))
		if err != nil {
			return err
		}
	} else {
		sink = export.NewFileSink(firstNonEmpty(exportDir, cfg.Export.Dir))
	}

	opts := []export.Option{
		export.WithCompression(compression),
		export.WithLogger(logger),
	}
	if company, err := cfg.Company(); err == nil {
		opts = append(opts, export.WithCompany(company))
	}
	if cfg.Storage.Path != "" {
		db, err := storage.Open(cfg.Storage.Path, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, export.WithHistory(storage.NewExportLog(db)))
	}

	exporter := export.NewExporter(repo, newFactory(cfg), sink, opts...)
	res, err := exporter.ExportAll(ctx, formats)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, rec := range res.Written {
		fmt.Fprintf(out, "wrote %-12s %-8s %7d bytes  %s\n", rec.Dataset, rec.Format, rec.Bytes, rec.Target)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(out, "FAILED %s\n", f.Error())
	}
	fmt.Fprintf(out, "run %s: %d written, %d failed\n", res.RunID, len(res.Written), len(res.Failures))

	if len(res.Failures) > 0 {
		return fmt.Errorf("%d of %d documents failed", len(res.Failures), len(res.Failures)+len(res.Written))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
