// Command analise prepares the extraction output for the statistical
// analysis: cleaning, the 30-day readmission proxy, procedure categories
// and the descriptive tables. The regression model and the figures are
// produced elsewhere from the prepared dataset.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/WelCode99/ArticleData/analise"
	"github.com/WelCode99/ArticleData/config"
	"github.com/WelCode99/ArticleData/logging"
)

func main() {
	var inputPath, outputDir string

	flag.StringVar(&inputPath, "input", config.DefaultOutputPath, "CSV produced by the extraction pipeline.")
	flag.StringVar(&outputDir, "outdir", "ResultadosAnalise", "Directory for the analysis tables.")
	flag.Parse()

	logging.InitLogger("", logging.ParseLevel("info"))

	if err := run(inputPath, outputDir); err != nil {
		logging.Error("Analysis preparation failed", "error", err)
		os.Exit(1)
	}
}

func run(inputPath, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	records, stats, err := analise.Load(inputPath)
	if err != nil {
		return err
	}
	fmt.Printf("Registros carregados: %d (de %d linhas)\n", len(records), stats.TotalRows)

	readmissoes := analise.MarkReadmissions(records)
	fmt.Printf("Readmissões em 30 dias: %d\n", readmissoes)

	counts := analise.CategorizeAll(records)
	for _, categoria := range []string{
		analise.CategoriaConservador,
		analise.CategoriaCirurgiaGrande,
		analise.CategoriaCirurgiaMedia,
		analise.CategoriaEspecificos,
		analise.CategoriaOutros,
	} {
		fmt.Printf("  %s: %d\n", categoria, counts[categoria])
	}

	descritiva := analise.Describe(records)

	if err := analise.WriteDescritiva(filepath.Join(outputDir, "Tabela1_Descritiva_Geral.csv"), descritiva); err != nil {
		return err
	}
	if err := analise.WriteContagemCategorias(filepath.Join(outputDir, "Contagem_Procedimentos_Categoria.csv"), counts); err != nil {
		return err
	}
	if err := analise.WritePrepared(filepath.Join(outputDir, "DadosPreparados.csv"), records); err != nil {
		return err
	}

	fmt.Printf("Tabelas salvas em %s\n", outputDir)
	return nil
}
