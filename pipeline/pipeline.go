package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/WelCode99/ArticleData/datasus"
	"github.com/WelCode99/ArticleData/interfaces"
	"github.com/WelCode99/ArticleData/logging"
)

// Compile-time checks for the pipeline's collaborators
var (
	_ interfaces.Fetcher    = (*datasus.Client)(nil)
	_ interfaces.RecordSink = (*CSVSink)(nil)
)

// Pipeline extracts the study records scope by scope, strictly sequential.
// No error is fatal: a scope that fails or yields nothing is logged and
// skipped, and the loop always runs to completion.
type Pipeline struct {
	fetcher interfaces.Fetcher
	sink    interfaces.RecordSink
	scopes  []Scope
	minAge  int
	allow   map[string]bool
}

// Summary totals one full run.
type Summary struct {
	RowsKept     int
	ScopesSaved  int
	ScopesEmpty  int
	ScopesFailed int
}

// New builds a pipeline over the study constants: all 27 UFs, the given
// inclusive year range, the adult age threshold and the septic arthritis
// allow-list.
func New(fetcher interfaces.Fetcher, sink interfaces.RecordSink, yearStart, yearEnd int) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		sink:    sink,
		scopes:  Scopes(yearStart, yearEnd),
		minAge:  MinAge,
		allow:   DefaultAllowList(),
	}
}

// Run processes every scope in order and returns the totals. The context is
// handed to the fetcher only; the loop itself never aborts.
func (p *Pipeline) Run(ctx context.Context) Summary {
	var summary Summary

	for _, scope := range p.scopes {
		result := p.fetcher.Fetch(ctx, scope.UF, scope.Year)

		switch result.Status {
		case datasus.FetchFailed:
			summary.ScopesFailed++
			fmt.Printf("%s %d: erro na consulta: %v\n", scope.UF, scope.Year, result.Err)
			logging.Warn("Fetch failed, skipping scope",
				"uf", scope.UF, "year", scope.Year, "error", result.Err)
			continue

		case datasus.FetchEmpty:
			summary.ScopesEmpty++
			fmt.Printf("%s %d: sem dados\n", scope.UF, scope.Year)
			logging.Debug("No records at the source", "uf", scope.UF, "year", scope.Year)
			continue
		}

		kept, err := p.saveScope(scope, result.Table)
		if err != nil {
			summary.ScopesFailed++
			fmt.Printf("%s %d: erro ao salvar: %v\n", scope.UF, scope.Year, err)
			logging.Warn("Failed to save scope, skipping",
				"uf", scope.UF, "year", scope.Year, "error", err)
			continue
		}
		if kept == 0 {
			summary.ScopesEmpty++
			fmt.Printf("%s %d: sem dados\n", scope.UF, scope.Year)
			logging.Debug("No rows survived the filter", "uf", scope.UF, "year", scope.Year,
				"raw_rows", result.Table.Len())
			continue
		}

		summary.ScopesSaved++
		summary.RowsKept += kept
		fmt.Printf("%s %d: %d linhas filtradas e salvas\n", scope.UF, scope.Year, kept)
	}

	return summary
}

// saveScope filters one fetched batch and appends the survivors. Returns
// the number of rows kept; zero rows kept writes nothing, so a scope before
// the first non-empty batch never triggers the header.
func (p *Pipeline) saveScope(scope Scope, raw *datasus.Table) (int, error) {
	filtered, err := FilterTable(raw, p.minAge, p.allow)
	if err != nil {
		return 0, err
	}
	if filtered.Len() == 0 {
		return 0, nil
	}

	if err := p.sink.EnsureStarted(filtered.Columns); err != nil {
		return 0, err
	}
	if err := p.sink.Append(filtered); err != nil {
		var mismatch *SchemaMismatchError
		if errors.As(err, &mismatch) {
			logging.Warn("Schema drift between scopes",
				"uf", scope.UF, "year", scope.Year, "error", mismatch)
		}
		return 0, err
	}

	return filtered.Len(), nil
}
