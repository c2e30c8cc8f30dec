// Package extract pulls structured tag fields out of free-form OCR text.
// Matching is best effort: a field is set only when its pattern hits, and
// garbled input yields an empty result rather than an error.
package extract

import (
	"regexp"
	"strings"
)

// Fields is the partial record recovered from a scanned tag. Empty string
// means the field was not found, never a guessed value.
type Fields struct {
	Name    string `json:"name,omitempty"`
	GrossWt string `json:"gross_wt,omitempty"`
	DiaWt   string `json:"dia_wt,omitempty"`
	NetWt   string `json:"net_wt,omitempty"`
	Making  string `json:"making,omitempty"`
	SomnDia string `json:"somn_dia,omitempty"`
	Total   string `json:"total,omitempty"`
	Date    string `json:"date,omitempty"`
}

var (
	grossWtRe = regexp.MustCompile(`(?i)GROSS\s*WT\s*[-–_:]?\s*([\d.,]+\s*g?)`)
	diaWtRe   = regexp.MustCompile(`(?i)DIA\s*WT\s*[-–_:]?\s*([\d.,]+\s*(?:CT|ct)?)`)
	netWtRe   = regexp.MustCompile(`(?i)NET\s*WT\s*[-–_:]?\s*([\d.,]+\s*g?)`)
	makingRe  = regexp.MustCompile(`(?i)MAKING\s*[-–_:]?\s*([\d.,]+\s*AED?)`)
	totalRe   = regexp.MustCompile(`(?i)TOTAL\s*[-–_:=]?\s*([\d.,]+\s*AED?)`)
	somnDiaRe = regexp.MustCompile(`(?i)SOMN\s*DIA\s*[-–_:]?\s*(.+)`)
	dateRe    = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{2,4})`)
	codeRe    = regexp.MustCompile(`\b(R[A-Z]*\d+[A-Z0-9]*)\b`)
)

// Parse extracts whatever fields the heuristics can identify in text.
func Parse(text string) Fields {
	var f Fields
	f.GrossWt = firstGroup(grossWtRe, text)
	f.DiaWt = firstGroup(diaWtRe, text)
	f.NetWt = firstGroup(netWtRe, text)
	f.Making = firstGroup(makingRe, text)
	f.Total = firstGroup(totalRe, text)
	f.SomnDia = firstGroup(somnDiaRe, text)
	f.Date = firstGroup(dateRe, text)
	f.Name = itemCode(text)
	return f
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// itemCode finds the first short line carrying an R-prefixed code. Lines with
// the literal brand marker are skipped so the logo watermark never wins; the
// exclusion is case sensitive on purpose.
func itemCode(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if len(strings.TrimSpace(line)) >= 15 {
			continue
		}
		if strings.Contains(line, "RRUMI") {
			continue
		}
		if m := codeRe.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}
