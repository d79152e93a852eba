package preprocessing

import (
	"strings"

	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
)

// CanonicalNumericFeatures is the full numeric feature list, in model input
// order: synthesis conditions, adsorbent properties, elemental molar ratios,
// process conditions and the five solute descriptors.
var CanonicalNumericFeatures = []string{
	"Agent/Sample(g/g)",
	"Soaking_Time(min)",
	"Soaking_Temp(K)",
	"Activation_Time(min)",
	"Activation_Temp(K)",
	"Activation_Heating_Rate (K/min)",
	"BET_Surface_Area(m2/g)",
	"Total_Pore_Volume(cm3/g)",
	"Micropore_Volume(cm3/g)",
	"Average_Pore_Diameter(nm)",
	"pHpzc",
	CarbonMolarFeature,
	HCRatioFeature,
	OCRatioFeature,
	NCRatioFeature,
	SCRatioFeature,
	"Initial_Concentration(mg/L)",
	"Solution_pH",
	"Temperature(K)",
	"Agitation_speed(rpm)",
	"Dosage(g/L)",
	"Contact_Time(min)",
	"E",
	"S",
	"A",
	"B",
	"V",
}

// CanonicalCategoricalFeatures lists the categorical model inputs. The
// substance code is consumed by derivation, not fed to the model directly.
var CanonicalCategoricalFeatures = []string{AtmosphereColumn}

// FeatureSet is the resolved intersection of the canonical feature lists
// with the columns a dataset actually provides.
type FeatureSet struct {
	Numeric     []string
	Categorical []string

	// Missing holds canonical features the dataset cannot supply.
	Missing []string
}

// Resolve intersects the canonical feature lists with columns. Derived
// features count as present when their source columns are: the molar ratios
// need the respective elemental percentages, the solute descriptors need the
// substance code. Missing canonical features are logged and dropped; the
// only fatal conditions are a missing target column and an empty resolved
// set.
func Resolve(columns []string, target string) (FeatureSet, error) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = true
	}

	if !present[target] {
		return FeatureSet{}, errors.NewValueError("Resolve", "target column "+target+" not found")
	}

	available := func(name string) bool {
		if present[name] {
			return true
		}
		switch name {
		case CarbonMolarFeature:
			return present[CarbonColumn]
		case HCRatioFeature:
			return present[CarbonColumn] && present[HydrogenColumn]
		case OCRatioFeature:
			return present[CarbonColumn] && present[OxygenColumn]
		case NCRatioFeature:
			return present[CarbonColumn] && present[NitrogenColumn]
		case SCRatioFeature:
			return present[CarbonColumn] && present[SulfurColumn]
		}
		for _, s := range SoluteFeatures {
			if name == s {
				return present[SubstanceColumn]
			}
		}
		return false
	}

	var fs FeatureSet
	for _, name := range CanonicalNumericFeatures {
		if available(name) {
			fs.Numeric = append(fs.Numeric, name)
		} else {
			fs.Missing = append(fs.Missing, name)
		}
	}
	for _, name := range CanonicalCategoricalFeatures {
		if present[name] {
			fs.Categorical = append(fs.Categorical, name)
		} else {
			fs.Missing = append(fs.Missing, name)
		}
	}

	if len(fs.Missing) > 0 {
		log.GetLoggerWithName("preprocessing").Warn("canonical features unavailable in dataset",
			"missing", strings.Join(fs.Missing, ", "))
	}
	if len(fs.Numeric) == 0 && len(fs.Categorical) == 0 {
		return FeatureSet{}, errors.NewUnresolvableFeatureSetError(target)
	}

	return fs, nil
}
