package normalizer

import "strings"

// makeAliases maps lowercased make spellings, abbreviations and Arabic
// renderings to canonical make names.
var makeAliases = map[string]string{
	"toyota":        "Toyota",
	"تويوتا":        "Toyota",
	"honda":         "Honda",
	"هوندا":         "Honda",
	"ford":          "Ford",
	"فورد":          "Ford",
	"chevy":         "Chevrolet",
	"chevrolet":     "Chevrolet",
	"شيفروليه":      "Chevrolet",
	"bmw":           "BMW",
	"بي ام دبليو":   "BMW",
	"mercedes":      "Mercedes-Benz",
	"mercedes-benz": "Mercedes-Benz",
	"benz":          "Mercedes-Benz",
	"مرسيدس":        "Mercedes-Benz",
	"audi":          "Audi",
	"اودي":          "Audi",
	"nissan":        "Nissan",
	"نيسان":         "Nissan",
	"hyundai":       "Hyundai",
	"هيونداي":       "Hyundai",
	"kia":           "Kia",
	"كيا":           "Kia",
	"vw":            "Volkswagen",
	"volkswagen":    "Volkswagen",
	"فولكس فاجن":    "Volkswagen",
	"mazda":         "Mazda",
	"مازدا":         "Mazda",
	"mitsubishi":    "Mitsubishi",
	"ميتسوبيشي":     "Mitsubishi",
	"lexus":         "Lexus",
	"لكزس":          "Lexus",
	"jeep":          "Jeep",
	"جيب":           "Jeep",
	"tesla":         "Tesla",
	"تسلا":          "Tesla",
	"renault":       "Renault",
	"رينو":          "Renault",
	"peugeot":       "Peugeot",
	"بيجو":          "Peugeot",
	"suzuki":        "Suzuki",
	"سوزوكي":        "Suzuki",
	"geely":         "Geely",
	"جيلي":          "Geely",
	"mg":            "MG",
	"subaru":        "Subaru",
	"dodge":         "Dodge",
	"gmc":           "GMC",
	"cadillac":      "Cadillac",
	"infiniti":      "Infiniti",
	"genesis":       "Genesis",
	"porsche":       "Porsche",
	"بورش":          "Porsche",
	"land rover":    "Land Rover",
	"لاند روفر":     "Land Rover",
	"range rover":   "Land Rover",
}

// CanonicalMake resolves a make string to its canonical spelling.
// Returns the trimmed input when no alias matches so unknown makes
// still flow through.
func CanonicalMake(s string) string {
	trimmed := strings.TrimSpace(s)
	if canonical, ok := makeAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// splitTitle attempts to pull make and model out of a listing title like
// "2018 Toyota Camry SE" or "Toyota Camry 2018". The year is handled
// separately; here only the make boundary matters.
func splitTitle(title string) (make, model string) {
	words := strings.Fields(title)
	for i := 0; i < len(words); i++ {
		// Try two-word makes first (Land Rover, Alfa Romeo style)
		if i+1 < len(words) {
			two := strings.ToLower(words[i] + " " + words[i+1])
			if canonical, ok := makeAliases[two]; ok {
				return canonical, modelFrom(words[i+2:])
			}
		}
		if canonical, ok := makeAliases[strings.ToLower(words[i])]; ok {
			return canonical, modelFrom(words[i+1:])
		}
	}
	return "", ""
}

// modelFrom takes the words following the make and returns the model,
// dropping trailing years and trim-level noise beyond two words.
func modelFrom(words []string) string {
	var kept []string
	for _, w := range words {
		if len(w) == 4 && (strings.HasPrefix(w, "19") || strings.HasPrefix(w, "20")) {
			continue
		}
		kept = append(kept, w)
		if len(kept) == 2 {
			break
		}
	}
	return strings.Join(kept, " ")
}
