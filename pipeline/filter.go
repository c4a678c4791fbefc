package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/WelCode99/ArticleData/datasus"
)

const (
	// MinAge is the inclusion threshold of the study: adults only.
	MinAge = 18

	// DiagnosisColumn is the principal diagnosis field of the RD files.
	DiagnosisColumn = "DIAG_PRINC"

	// AgeColumn is the patient age field of the RD files.
	AgeColumn = "IDADE"

	// DerivedColumn holds the de-punctuated, upper-cased diagnosis code
	// appended to every surviving row.
	DerivedColumn = "DIAG_NORM"
)

// DefaultAllowList returns the septic arthritis ICD-10 codes of the study
// (M00.0 through M00.9), already de-punctuated.
func DefaultAllowList() map[string]bool {
	return map[string]bool{
		"M000": true,
		"M001": true,
		"M002": true,
		"M008": true,
		"M009": true,
	}
}

// NormalizeDiagnosis strips separator punctuation from an ICD-10 code and
// upper-cases it, e.g. "M00.0" becomes "M000". Filtering is an exact match
// on this form.
func NormalizeDiagnosis(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToUpper(strings.TrimSpace(code)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FilterTable keeps the rows with age at or above minAge and a normalized
// principal diagnosis in the allow-list, returning a new table with the
// derived diagnosis column appended. The result may have zero rows. An
// input table without the diagnosis or age column is an error.
func FilterTable(t *datasus.Table, minAge int, allow map[string]bool) (*datasus.Table, error) {
	diagIdx, ok := t.ColumnIndex(DiagnosisColumn)
	if !ok {
		return nil, fmt.Errorf("input table has no %s column", DiagnosisColumn)
	}
	ageIdx, ok := t.ColumnIndex(AgeColumn)
	if !ok {
		return nil, fmt.Errorf("input table has no %s column", AgeColumn)
	}

	columns := make([]string, 0, len(t.Columns)+1)
	columns = append(columns, t.Columns...)
	columns = append(columns, DerivedColumn)
	filtered := datasus.NewTable(columns)

	for _, row := range t.Rows {
		norm := NormalizeDiagnosis(row[diagIdx])
		if !allow[norm] {
			continue
		}

		// An unparseable age cannot satisfy the threshold
		age, err := strconv.Atoi(row[ageIdx])
		if err != nil || age < minAge {
			continue
		}

		kept := make([]string, 0, len(columns))
		kept = append(kept, row...)
		kept = append(kept, norm)
		filtered.Rows = append(filtered.Rows, kept)
	}

	return filtered, nil
}
