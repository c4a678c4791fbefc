package analise

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/WelCode99/ArticleData/logging"
)

// Descritiva holds the general descriptive statistics of the study
// population (Tabela 1 of the manuscript).
type Descritiva struct {
	N int

	IdadeMedia   float64
	IdadeDP      float64
	IdadeMediana float64
	IdadeQ1      float64
	IdadeQ3      float64

	PermMedia   float64
	PermDP      float64
	PermMediana float64
	PermQ1      float64
	PermQ3      float64

	SexoMasculinoPct float64
	MortalidadePct   float64
	Obitos           int
	Readmissoes      int
	ReadmissaoPct    float64
}

func quantiles(values []float64) (q1, median, q3 float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return q1, median, q3
}

// Describe computes the descriptive statistics over cleaned records.
// MarkReadmissions must have run first for the readmission figures to be
// meaningful.
func Describe(records []Internacao) Descritiva {
	d := Descritiva{N: len(records)}
	if len(records) == 0 {
		return d
	}

	idades := make([]float64, len(records))
	perm := make([]float64, len(records))
	masculino := 0

	for i, rec := range records {
		idades[i] = float64(rec.Idade)
		perm[i] = float64(rec.DiasPerm)
		// SIH coding: sex 1 is male
		if rec.Sexo == 1 {
			masculino++
		}
		if rec.Morte != 0 {
			d.Obitos++
		}
		if rec.Readmitido30d {
			d.Readmissoes++
		}
	}

	d.IdadeMedia = stat.Mean(idades, nil)
	d.IdadeDP = stat.StdDev(idades, nil)
	d.IdadeQ1, d.IdadeMediana, d.IdadeQ3 = quantiles(idades)

	d.PermMedia = stat.Mean(perm, nil)
	d.PermDP = stat.StdDev(perm, nil)
	d.PermQ1, d.PermMediana, d.PermQ3 = quantiles(perm)

	n := float64(len(records))
	d.SexoMasculinoPct = float64(masculino) / n * 100
	d.MortalidadePct = float64(d.Obitos) / n * 100
	d.ReadmissaoPct = float64(d.Readmissoes) / n * 100

	return d
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close output file", "path", path, "error", err)
		}
	}()

	writer := csv.NewWriter(file)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write to %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// WriteDescritiva writes the general descriptive table.
func WriteDescritiva(path string, d Descritiva) error {
	rows := [][]string{
		{"Indicador", "Valor"},
		{"Total Pacientes", strconv.Itoa(d.N)},
		{"Idade Média (DP)", fmt.Sprintf("%.1f (%.1f)", d.IdadeMedia, d.IdadeDP)},
		{"Idade Mediana (IIQ)", fmt.Sprintf("%.0f (%.0f-%.0f)", d.IdadeMediana, d.IdadeQ1, d.IdadeQ3)},
		{"Sexo Masculino (%)", fmt.Sprintf("%.2f", d.SexoMasculinoPct)},
		{"Tempo Permanência Média (DP)", fmt.Sprintf("%.1f (%.1f)", d.PermMedia, d.PermDP)},
		{"Tempo Permanência Mediana (IIQ)", fmt.Sprintf("%.0f (%.0f-%.0f)", d.PermMediana, d.PermQ1, d.PermQ3)},
		{"Mortalidade Hospitalar (%)", fmt.Sprintf("%.2f", d.MortalidadePct)},
		{"Número de Óbitos", strconv.Itoa(d.Obitos)},
		{"Readmissão em 30 dias (%)", fmt.Sprintf("%.2f", d.ReadmissaoPct)},
		{"Número de Readmissões", strconv.Itoa(d.Readmissoes)},
	}
	return writeCSV(path, rows)
}

// WriteContagemCategorias writes the per-category procedure counts,
// largest first.
func WriteContagemCategorias(path string, counts map[string]int) error {
	categories := make([]string, 0, len(counts))
	for cat := range counts {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})

	rows := [][]string{{"PROC_CATEGORIA", "Contagem"}}
	for _, cat := range categories {
		rows = append(rows, []string{cat, strconv.Itoa(counts[cat])})
	}
	return writeCSV(path, rows)
}

// WritePrepared writes the cleaned dataset with the derived readmission
// flag and procedure category, the input of the (external) regression.
func WritePrepared(path string, records []Internacao) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{
		"MUNIC_RES", "NASC", "SEXO", "CEP", "DT_INTER", "DT_SAIDA",
		"DIAS_PERM", "IDADE", "MORTE", "PROC_REA", "PROC_NOME", "DIAG_NORM",
		"READMITIDO_30D", "PROC_CATEGORIA",
	})

	for _, rec := range records {
		readmitido := "0"
		if rec.Readmitido30d {
			readmitido = "1"
		}
		rows = append(rows, []string{
			rec.MunicRes,
			rec.Nasc.Format("20060102"),
			strconv.Itoa(rec.Sexo),
			rec.CEP,
			rec.DtInter.Format("20060102"),
			rec.DtSaida.Format("20060102"),
			strconv.Itoa(rec.DiasPerm),
			strconv.Itoa(rec.Idade),
			strconv.Itoa(rec.Morte),
			rec.ProcRea,
			rec.ProcNome,
			rec.DiagNorm,
			readmitido,
			rec.Categoria,
		})
	}

	return writeCSV(path, rows)
}
