package normalizer

import (
	"strings"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// conditionVocab maps marketplace condition wording (English and Arabic)
// to the canonical grade. Matching is case-insensitive substring.
var conditionVocab = []struct {
	term  string
	grade domain.Condition
}{
	// English
	{"excellent", domain.ConditionExcellent},
	{"like new", domain.ConditionExcellent},
	{"mint", domain.ConditionExcellent},
	{"new", domain.ConditionExcellent},
	{"certified", domain.ConditionGood},
	{"very good", domain.ConditionGood},
	{"good", domain.ConditionGood},
	{"used", domain.ConditionGood},
	{"fair", domain.ConditionFair},
	{"average", domain.ConditionFair},
	{"acceptable", domain.ConditionFair},
	{"needs work", domain.ConditionPoor},
	{"salvage", domain.ConditionPoor},
	{"damaged", domain.ConditionPoor},
	{"poor", domain.ConditionPoor},
	// Arabic
	{"ممتازة", domain.ConditionExcellent},
	{"ممتاز", domain.ConditionExcellent},
	{"جديدة", domain.ConditionExcellent},
	{"جديد", domain.ConditionExcellent},
	{"جيدة جدا", domain.ConditionGood},
	{"جيدة", domain.ConditionGood},
	{"جيد", domain.ConditionGood},
	{"مستعملة", domain.ConditionGood},
	{"مستعمل", domain.ConditionGood},
	{"متوسطة", domain.ConditionFair},
	{"مقبولة", domain.ConditionFair},
	{"تحتاج صيانة", domain.ConditionPoor},
	{"حادث", domain.ConditionPoor},
	// schema.org item conditions
	{"newcondition", domain.ConditionExcellent},
	{"usedcondition", domain.ConditionGood},
	{"damagedcondition", domain.ConditionPoor},
}

// mapCondition resolves condition text to the canonical grade.
// Unknown wording defaults to Good.
func mapCondition(text string) domain.Condition {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return domain.ConditionGood
	}
	for _, entry := range conditionVocab {
		if strings.Contains(lowered, entry.term) {
			return entry.grade
		}
	}
	return domain.ConditionGood
}

// fuelVocab maps fuel wording to the canonical fuel type. Order matters:
// hybrid entries come before plain gasoline/electric terms.
var fuelVocab = []struct {
	term string
	fuel domain.FuelType
}{
	{"plug-in", domain.FuelHybrid},
	{"hybrid", domain.FuelHybrid},
	{"هايبرد", domain.FuelHybrid},
	{"هجين", domain.FuelHybrid},
	{"electric", domain.FuelElectric},
	{"ev", domain.FuelElectric},
	{"كهرباء", domain.FuelElectric},
	{"كهربائية", domain.FuelElectric},
	{"diesel", domain.FuelDiesel},
	{"ديزل", domain.FuelDiesel},
	{"lpg", domain.FuelLPG},
	{"cng", domain.FuelLPG},
	{"غاز", domain.FuelLPG},
	{"petrol", domain.FuelGasoline},
	{"gasoline", domain.FuelGasoline},
	{"gas", domain.FuelGasoline},
	{"بنزين", domain.FuelGasoline},
}

// mapFuel resolves fuel text to the canonical type. Unknown wording
// defaults to Gasoline.
func mapFuel(text string) domain.FuelType {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return domain.FuelGasoline
	}
	for _, entry := range fuelVocab {
		if strings.Contains(lowered, entry.term) {
			return entry.fuel
		}
	}
	return domain.FuelGasoline
}
