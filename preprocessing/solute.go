package preprocessing

import "strings"

// SoluteDescriptor holds the five Abraham solvation descriptors for one
// pharmaceutical: excess molar refraction E, dipolarity/polarizability S,
// hydrogen-bond acidity A, hydrogen-bond basicity B and McGowan volume V.
type SoluteDescriptor struct {
	Code string
	E    float64
	S    float64
	A    float64
	B    float64
	V    float64
}

// SoluteTable maps normalized substance codes to their descriptors.
// Lookup is case-insensitive and whitespace-tolerant.
type SoluteTable struct {
	entries map[string]SoluteDescriptor
	codes   []string
}

// NormalizeCode maps a raw substance code to its canonical lookup form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewSoluteTable builds a table from descriptors, keyed by normalized code.
// Later duplicates overwrite earlier ones.
func NewSoluteTable(descriptors []SoluteDescriptor) *SoluteTable {
	t := &SoluteTable{entries: make(map[string]SoluteDescriptor, len(descriptors))}
	for _, d := range descriptors {
		key := NormalizeCode(d.Code)
		if key == "" {
			continue
		}
		if _, seen := t.entries[key]; !seen {
			t.codes = append(t.codes, key)
		}
		t.entries[key] = d
	}
	return t
}

// Lookup returns the descriptor for code, if known.
func (t *SoluteTable) Lookup(code string) (SoluteDescriptor, bool) {
	d, ok := t.entries[NormalizeCode(code)]
	return d, ok
}

// KnownCodes returns the substance codes in registration order.
func (t *SoluteTable) KnownCodes() []string {
	out := make([]string, len(t.codes))
	copy(out, t.codes)
	return out
}

// Len reports the number of registered substances.
func (t *SoluteTable) Len() int { return len(t.entries) }

var defaultSolutes = NewSoluteTable([]SoluteDescriptor{
	{Code: "PHE", E: 0.85, S: 0.95, A: 0.30, B: 0.78, V: 1.1156},
	{Code: "APAP", E: 1.06, S: 1.63, A: 1.04, B: 0.86, V: 1.1724},
	{Code: "ASA", E: 0.78, S: 1.69, A: 0.71, B: 0.67, V: 1.2879},
	{Code: "BENZ", E: 1.03, S: 1.31, A: 0.31, B: 0.69, V: 1.3133},
	{Code: "CAF", E: 1.50, S: 1.72, A: 0.05, B: 1.28, V: 1.3632},
	{Code: "CIP", E: 2.20, S: 2.34, A: 0.70, B: 2.52, V: 2.3040},
	{Code: "CIT", E: 1.83, S: 1.99, A: 0.00, B: 1.53, V: 2.5328},
	{Code: "DCF", E: 1.81, S: 1.85, A: 0.55, B: 0.77, V: 2.0250},
	{Code: "FLX", E: 1.23, S: 1.30, A: 0.12, B: 1.03, V: 2.2403},
	{Code: "IBU", E: 0.73, S: 0.70, A: 0.56, B: 0.79, V: 1.7771},
	{Code: "MTZ", E: 1.12, S: 1.79, A: 0.37, B: 1.04, V: 1.1919},
	{Code: "NPX", E: 1.51, S: 2.02, A: 0.60, B: 0.67, V: 1.7821},
	{Code: "NOR", E: 1.98, S: 2.50, A: 0.05, B: 2.39, V: 2.2724},
	{Code: "OTC", E: 3.60, S: 3.05, A: 1.65, B: 3.50, V: 3.1579},
	{Code: "SA", E: 0.90, S: 0.85, A: 0.73, B: 0.37, V: 0.9904},
	{Code: "SDZ", E: 2.08, S: 2.55, A: 0.65, B: 1.37, V: 1.7225},
	{Code: "SMR", E: 2.10, S: 2.65, A: 0.65, B: 1.42, V: 1.8634},
	{Code: "SMT", E: 2.13, S: 2.53, A: 0.59, B: 1.53, V: 2.0043},
	{Code: "SMX", E: 1.89, S: 2.23, A: 0.58, B: 1.29, V: 1.7244},
	{Code: "TC", E: 3.50, S: 3.60, A: 1.35, B: 3.29, V: 3.0992},
	{Code: "CBZ", E: 2.15, S: 1.90, A: 0.50, B: 1.15, V: 1.8106},
})

// DefaultSoluteTable returns the built-in descriptor table covering the 21
// pharmaceuticals of the study. Callers must not mutate it.
func DefaultSoluteTable() *SoluteTable { return defaultSolutes }
