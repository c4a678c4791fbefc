package analise

import (
	"fmt"
	"sort"
	"time"
)

// readmissionWindow is the gap, in days, from a discharge to the next
// admission of the same pseudo-identifier that counts as a readmission.
const readmissionWindow = 30

// ProxyID builds the stable pseudo-identifier of the study. The SIH files
// carry no patient identifier, so residence municipality, birth date, sex
// and postal code stand in for one.
func ProxyID(rec Internacao) string {
	return fmt.Sprintf("%s|%s|%d|%s",
		rec.MunicRes, rec.Nasc.Format("2006-01-02"), rec.Sexo, rec.CEP)
}

// MarkReadmissions sorts the records by (proxy identifier, admission date)
// and flags every admission that starts within 30 days of the previous
// discharge of the same identifier. Returns the number of readmissions.
// The slice is reordered in place.
func MarkReadmissions(records []Internacao) int {
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := ProxyID(records[i]), ProxyID(records[j])
		if pi != pj {
			return pi < pj
		}
		return records[i].DtInter.Before(records[j].DtInter)
	})

	count := 0
	var prevID string
	var prevSaida time.Time

	for i := range records {
		id := ProxyID(records[i])
		records[i].Readmitido30d = false

		if id == prevID {
			gap := int(records[i].DtInter.Sub(prevSaida).Hours() / 24)
			if gap >= 0 && gap <= readmissionWindow {
				records[i].Readmitido30d = true
				count++
			}
		}

		prevID = id
		prevSaida = records[i].DtSaida
	}

	return count
}
