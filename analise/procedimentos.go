package analise

import "strings"

// Procedure categories of the study, with Conservador as the regression
// reference level.
const (
	CategoriaCirurgiaGrande = "Cirurgia Grande"
	CategoriaEspecificos    = "Procedimentos Específicos"
	CategoriaCirurgiaMedia  = "Cirurgia Média/Pequena"
	CategoriaOutros         = "Outros procedimentos"
	CategoriaConservador    = "Conservador"
)

var (
	kwGrande      = []string{"artroplastia", "artrodese", "osteossintese", "reconstrucao", "ressec/tumor"}
	kwEspecificos = []string{"artrotom", "sinovectomia"}
	kwMedia       = []string{"artroscopia", "desbridamento", "exerese", "tenorrafia", "capsulorrafia"}
	kwOutros      = []string{"drenagem", "biopsia", "puncao", "retirad", "reparacao", "corpo estranho"}
	kwConservador = []string{"conservador", "clinico", "sem procedimento"}
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// CategorizeProcedure classifies a procedure by keywords in its name. The
// rule order matters: arthrotomy for a foreign body belongs to the residual
// category, not to Procedimentos Específicos.
func CategorizeProcedure(procNome string) string {
	name := strings.ToLower(strings.TrimSpace(procNome))
	if name == "" {
		return CategoriaConservador
	}

	switch {
	case containsAny(name, kwGrande):
		return CategoriaCirurgiaGrande
	case containsAny(name, kwEspecificos) && !strings.Contains(name, "corpo estranho"):
		return CategoriaEspecificos
	case containsAny(name, kwMedia):
		return CategoriaCirurgiaMedia
	case containsAny(name, kwOutros):
		return CategoriaOutros
	case containsAny(name, kwConservador):
		return CategoriaConservador
	default:
		return CategoriaOutros
	}
}

// CategorizeAll fills the Categoria field of every record and returns the
// per-category counts.
func CategorizeAll(records []Internacao) map[string]int {
	counts := make(map[string]int)
	for i := range records {
		records[i].Categoria = CategorizeProcedure(records[i].ProcNome)
		counts[records[i].Categoria]++
	}
	return counts
}
