package domain

// WorkingLanguage is the pipeline's internal language. Extraction and
// synthesis prompts always operate in English regardless of the input.
const WorkingLanguage = "en-IN"

// SupportedLanguages maps translation source codes to display names.
// Process-wide configuration, never mutated.
var SupportedLanguages = map[string]string{
	"en-IN": "English",
	"hi-IN": "Hindi",
	"bn-IN": "Bengali",
	"kn-IN": "Kannada",
	"ml-IN": "Malayalam",
	"mr-IN": "Marathi",
	"od-IN": "Odia",
	"pa-IN": "Punjabi",
	"ta-IN": "Tamil",
	"te-IN": "Telugu",
	"gu-IN": "Gujarati",
}

func IsSupportedLanguage(code string) bool {
	_, ok := SupportedLanguages[code]
	return ok
}

// LanguageName returns the display name for a language code, falling back to
// the code itself for unknown values.
func LanguageName(code string) string {
	if name, ok := SupportedLanguages[code]; ok {
		return name
	}
	return code
}
