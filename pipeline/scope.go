// Package pipeline drives the extraction: for every (UF, year) scope it
// fetches the raw hospitalization records, derives the normalized diagnosis
// code, filters by age and diagnosis, and appends the survivors to a single
// CSV consumed by the statistical analysis.
package pipeline

// UFs lists the 27 federative units in the IBGE region order used by the
// SIH/SUS publications. The outer extraction loop follows this order.
var UFs = []string{
	"RO", "AC", "AM", "RR", "PA", "AP", "TO",
	"MA", "PI", "CE", "RN", "PB", "PE", "AL", "SE", "BA",
	"MG", "ES", "RJ", "SP",
	"PR", "SC", "RS",
	"MS", "MT", "GO", "DF",
}

// Scope is one (UF, year) unit of work.
type Scope struct {
	UF   string
	Year int
}

// Scopes builds the full cross product of UFs and the inclusive year range,
// UF order outer and ascending year inner. Row order in the output file
// follows this sequence.
func Scopes(yearStart, yearEnd int) []Scope {
	scopes := make([]Scope, 0, len(UFs)*(yearEnd-yearStart+1))
	for _, uf := range UFs {
		for year := yearStart; year <= yearEnd; year++ {
			scopes = append(scopes, Scope{UF: uf, Year: year})
		}
	}
	return scopes
}
