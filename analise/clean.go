// Package analise prepares the extraction output for the statistical
// analysis of the study: it cleans the raw rows, flags 30-day readmissions
// through a proxy identifier, categorizes procedures and computes the
// descriptive statistics. The regression model and the figures stay outside
// this repository.
package analise

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/WelCode99/ArticleData/datasus"
	"github.com/WelCode99/ArticleData/logging"
)

// Internacao is one cleaned hospitalization record.
type Internacao struct {
	MunicRes string
	Nasc     time.Time
	Sexo     int
	CEP      string
	DtInter  time.Time
	DtSaida  time.Time
	DiasPerm int
	Idade    int
	Morte    int
	ProcRea  string
	ProcNome string
	DiagNorm string

	// Derived by MarkReadmissions and CategorizeAll
	Readmitido30d bool
	Categoria     string
}

// Columns the cleaning step cannot do without.
var essentialColumns = []string{
	"MUNIC_RES", "NASC", "SEXO", "CEP", "DT_INTER", "DT_SAIDA",
	"DIAS_PERM", "IDADE", "MORTE", "PROC_NOME",
}

// LoadStats counts the rows dropped by each cleaning rule.
type LoadStats struct {
	TotalRows        int
	MissingFields    int
	FormatErrors     int
	UnderAge         int
	ZeroStay         int
	InconsistentDate int
}

// Load reads the extraction CSV and returns the records that satisfy the
// study's inclusion rules: age 18 or older, at least one day of stay and a
// discharge date not before the admission date.
func Load(path string) ([]Internacao, LoadStats, error) {
	var stats LoadStats

	file, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close input file", "error", err)
		}
	}()

	table, err := datasus.ReadTable(file)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	indices := make(map[string]int, len(essentialColumns))
	for _, col := range essentialColumns {
		idx, ok := table.ColumnIndex(col)
		if !ok {
			return nil, stats, fmt.Errorf("input file is missing the %s column", col)
		}
		indices[col] = idx
	}
	// Optional columns
	procReaIdx, hasProcRea := table.ColumnIndex("PROC_REA")
	diagNormIdx, hasDiagNorm := table.ColumnIndex("DIAG_NORM")

	records := make([]Internacao, 0, table.Len())

	for _, row := range table.Rows {
		stats.TotalRows++

		missing := false
		for _, col := range essentialColumns {
			if row[indices[col]] == "" {
				missing = true
				break
			}
		}
		if missing {
			stats.MissingFields++
			continue
		}

		rec, err := parseRecord(row, indices)
		if err != nil {
			stats.FormatErrors++
			continue
		}
		if hasProcRea {
			rec.ProcRea = row[procReaIdx]
		}
		if hasDiagNorm {
			rec.DiagNorm = row[diagNormIdx]
		}

		if rec.Idade < 18 {
			stats.UnderAge++
			continue
		}
		if rec.DiasPerm < 1 {
			stats.ZeroStay++
			continue
		}
		if rec.DtSaida.Before(rec.DtInter) {
			stats.InconsistentDate++
			continue
		}

		records = append(records, rec)
	}

	dropped := stats.TotalRows - len(records)
	if dropped > 0 {
		logging.Info("Cleaning dropped rows",
			"total", stats.TotalRows,
			"kept", len(records),
			"missing_fields", stats.MissingFields,
			"format_errors", stats.FormatErrors,
			"under_age", stats.UnderAge,
			"zero_stay", stats.ZeroStay,
			"inconsistent_dates", stats.InconsistentDate)
	}

	return records, stats, nil
}

// parseRecord converts one raw row into a typed record. Dates arrive in the
// YYYYMMDD layout of the RD files.
func parseRecord(row []string, indices map[string]int) (Internacao, error) {
	var rec Internacao
	var err error

	rec.MunicRes = row[indices["MUNIC_RES"]]
	rec.CEP = row[indices["CEP"]]
	rec.ProcNome = row[indices["PROC_NOME"]]

	if rec.Nasc, err = time.Parse("20060102", row[indices["NASC"]]); err != nil {
		return rec, fmt.Errorf("invalid NASC: %w", err)
	}
	if rec.DtInter, err = time.Parse("20060102", row[indices["DT_INTER"]]); err != nil {
		return rec, fmt.Errorf("invalid DT_INTER: %w", err)
	}
	if rec.DtSaida, err = time.Parse("20060102", row[indices["DT_SAIDA"]]); err != nil {
		return rec, fmt.Errorf("invalid DT_SAIDA: %w", err)
	}
	if rec.Sexo, err = strconv.Atoi(row[indices["SEXO"]]); err != nil {
		return rec, fmt.Errorf("invalid SEXO: %w", err)
	}
	if rec.DiasPerm, err = strconv.Atoi(row[indices["DIAS_PERM"]]); err != nil {
		return rec, fmt.Errorf("invalid DIAS_PERM: %w", err)
	}
	if rec.Idade, err = strconv.Atoi(row[indices["IDADE"]]); err != nil {
		return rec, fmt.Errorf("invalid IDADE: %w", err)
	}
	if rec.Morte, err = strconv.Atoi(row[indices["MORTE"]]); err != nil {
		return rec, fmt.Errorf("invalid MORTE: %w", err)
	}

	return rec, nil
}
