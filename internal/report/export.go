package report

import (
	"golang.org/x/sync/errgroup"
)

// ArtifactPaths names the destination of each format for a full export.
// Empty paths skip that format.
type ArtifactPaths struct {
	CSV  string
	XLSX string
	PDF  string
}

// ExportAll writes every requested artifact. The formats render
// concurrently; each reads the report through its immutable accessors,
// so no locking is needed. The first failure wins, and any artifact
// already written stays on disk for inspection.
func (r *Report) ExportAll(paths ArtifactPaths, order SortOrder) error {
	var g errgroup.Group

	if paths.CSV != "" {
		g.Go(func() error { return r.ExportCSV(paths.CSV, order) })
	}
	if paths.XLSX != "" {
		g.Go(func() error { return r.ExportXLSX(paths.XLSX, order) })
	}
	if paths.PDF != "" {
		g.Go(func() error { return r.ExportPDF(paths.PDF, order) })
	}

	return g.Wait()
}
