package report

import "strings"

// Data is the aggregate payload shared by daily, weekly and monthly reports.
// A daily report carries one day's figures; weekly and monthly reports carry
// the sum of their days.
type Data struct {
	Movements     *Movements     `json:"mouvements,omitempty"`
	Consultations map[string]int `json:"consultations,omitempty"`
	Actes         map[string]int `json:"actes,omitempty"`
	Observations  Observations   `json:"observations"`
	// Extra holds per-service custom numeric fields keyed by custom field id.
	Extra map[string]any `json:"extra,omitempty"`
	// TauxOccupation is derived at compile time, never entered by hand.
	TauxOccupation *int `json:"tauxOccupation,omitempty"`
}

// Movements covers inpatient flow for services with beds. EffectifDebut and
// EffectifFin are point-in-time headcounts, not flow quantities.
type Movements struct {
	EffectifDebut int     `json:"effectifDebut"`
	Admissions    int     `json:"admissions"`
	Sorties       Sorties `json:"sorties"`
	EffectifFin   int     `json:"effectifFin"`
}

// Sorties is the discharge breakdown by category.
type Sorties struct {
	Domicile  int `json:"domicile"`
	Transfert int `json:"transfert"`
	Evasion   int `json:"evasion"`
	Deces     int `json:"deces"`
}

// Total returns the number of discharges across all categories.
func (s Sorties) Total() int {
	return s.Domicile + s.Transfert + s.Evasion + s.Deces
}

// Observations holds the two narrative fields carried through aggregation.
type Observations struct {
	Pannes  string `json:"pannes"`
	General string `json:"general"`
}

// excludedKeys are bookkeeping fields that must never be merged when they
// leak into a custom-field payload.
var excludedKeys = map[string]bool{
	"serviceId": true,
	"date":      true,
	"dateEnd":   true,
	"createdAt": true,
	"updatedAt": true,
}

// Sum adds src into dst field by field. Numeric fields add, observation text
// concatenates with a newline (blank entries are skipped), and any other
// string leaf is dropped.
func Sum(dst, src *Data) {
	if src == nil {
		return
	}
	if src.Movements != nil {
		if dst.Movements == nil {
			dst.Movements = &Movements{}
		}
		dst.Movements.EffectifDebut += src.Movements.EffectifDebut
		dst.Movements.Admissions += src.Movements.Admissions
		dst.Movements.Sorties.Domicile += src.Movements.Sorties.Domicile
		dst.Movements.Sorties.Transfert += src.Movements.Sorties.Transfert
		dst.Movements.Sorties.Evasion += src.Movements.Sorties.Evasion
		dst.Movements.Sorties.Deces += src.Movements.Sorties.Deces
		dst.Movements.EffectifFin += src.Movements.EffectifFin
	}
	dst.Consultations = sumCounts(dst.Consultations, src.Consultations)
	dst.Actes = sumCounts(dst.Actes, src.Actes)
	dst.Observations.Pannes = JoinText(dst.Observations.Pannes, src.Observations.Pannes)
	dst.Observations.General = JoinText(dst.Observations.General, src.Observations.General)
	dst.Extra = mergeExtra(dst.Extra, src.Extra)
}

func sumCounts(dst, src map[string]int) map[string]int {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]int, len(src))
	}
	for k, v := range src {
		dst[k] += v
	}
	return dst
}

// JoinText concatenates narrative text with a newline separator, skipping
// blank or whitespace-only entries.
func JoinText(a, b string) string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n" + b
	}
}

// isObservationKey reports whether a custom-field key denotes narrative text
// that should be concatenated rather than dropped.
func isObservationKey(key string) bool {
	lower := strings.ToLower(key)
	return lower == "pannes" || lower == "general" || strings.Contains(lower, "observation")
}

// mergeExtra deep-merges custom field values: numbers add, observation text
// concatenates, everything else (ids, booleans, free text) is dropped.
func mergeExtra(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if excludedKeys[k] {
			continue
		}
		switch sv := v.(type) {
		case float64:
			dst[k] = numValue(dst[k]) + sv
		case int:
			dst[k] = numValue(dst[k]) + float64(sv)
		case string:
			if isObservationKey(k) {
				prev, _ := dst[k].(string)
				if joined := JoinText(prev, sv); joined != "" {
					dst[k] = joined
				}
			}
		case map[string]any:
			nested, _ := dst[k].(map[string]any)
			if merged := mergeExtra(nested, sv); merged != nil {
				dst[k] = merged
			}
		}
	}
	return dst
}

func numValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
