// Package preprocessing implements the domain feature derivation for
// adsorption-capacity prediction: solute descriptor join, elemental
// molar-ratio computation, type coercion, feature-set resolution and
// categorical encoding.
package preprocessing

import (
	"sort"
	"strconv"
	"strings"
)

// Column names fixed by the data contract.
const (
	// TargetColumn is the regression target: adsorption capacity qe.
	TargetColumn = "qe(mg/g)"

	// SubstanceColumn is the categorical target-substance code.
	SubstanceColumn = "Target_Phar"

	// AtmosphereColumn is the categorical activation-atmosphere code.
	AtmosphereColumn = "Activation_Atmosphere"
)

// Elemental weight-percentage columns.
const (
	CarbonColumn   = "C_percent"
	HydrogenColumn = "H_percent"
	OxygenColumn   = "O_percent"
	NitrogenColumn = "N_percent"
	SulfurColumn   = "S_percent"
)

// Derived molar-ratio feature names.
const (
	CarbonMolarFeature = "C_molar"
	HCRatioFeature     = "H_C_molar"
	OCRatioFeature     = "O_C_molar"
	NCRatioFeature     = "N_C_molar"
	SCRatioFeature     = "S_C_molar"
)

// Solute descriptor feature names (Abraham LSER descriptors).
var SoluteFeatures = []string{"E", "S", "A", "B", "V"}

// RawRecord is a raw parameter record: named synthesis conditions, adsorbent
// properties, process conditions and the two categorical codes. Values are
// float64, int, string or nil; missing entries may simply be absent.
type RawRecord map[string]any

// Clone returns a shallow copy. Values are scalars, so the copy is
// independent for sweep purposes.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// normalizeLabels strips incidental whitespace from keys so uploaded tables
// with formatting noise still match the expected schema. When several keys
// normalize to the same label, an exact (already clean) key wins over padded
// variants; among padded variants the lexicographically smallest key wins,
// so repeated derivation of the same record stays bit-identical.
func normalizeLabels(r RawRecord) RawRecord {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(RawRecord, len(r))
	for _, k := range keys {
		nk := strings.TrimSpace(k)
		if nk == k {
			out[nk] = r[k]
			continue
		}
		if _, exists := out[nk]; !exists {
			out[nk] = r[k]
		}
	}
	return out
}

// floatValue coerces a raw value to float64. Unparseable values report
// ok=false and become NaN downstream, never an error.
func floatValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stringValue coerces a raw value to a trimmed string category code.
func stringValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	default:
		return "", false
	}
}
