// Package exam holds the fixed enumerations of the exam corpus: subject
// codes, supported languages, section identities and the per-language
// translation tables. All tables are process-wide constants; nothing here
// is mutated at runtime.
package exam

import "fmt"

// SubjectCodes maps subject short codes to their two-digit corpus codes.
var SubjectCodes = map[string]string{
	"rus": "01",
	"bel": "02",
	"phy": "03",
	"mth": "04",
	"chm": "05",
	"bio": "06",
	"eng": "07",
	"ger": "08",
	"esp": "09",
	"fra": "10",
	"bhi": "11",
	"soc": "12",
	"geo": "13",
	"whi": "14",
	"chi": "15",
}

// Languages is the fixed set of supported exam languages.
var Languages = map[string]bool{
	"rus": true,
	"bel": true,
}

// Section letters as they appear in the source documents. These are
// Cyrillic letters, not Latin ones.
const (
	SectionA = "А"
	SectionB = "В"
)

// SectionLetters lists the two sections in document order.
var SectionLetters = []string{SectionA, SectionB}

// sectionTranslation maps Cyrillic section letters to their Latin corpus ids.
var sectionTranslation = map[string]string{
	SectionA: "A",
	SectionB: "B",
}

// belAnswerTranslation holds the handful of string-valued answers whose
// canonical spelling differs between the two languages.
var belAnswerTranslation = map[string]string{
	"ПОЛИТИКА":      "ПАЛІТЫКА",
	"МЕЖЛЕДНИКОВЬЕ": "МІЖЛЕДАВІКОЎЕ",
}

// letterSamples is the per-language handwriting-sample reference line that
// precedes every question in the answer-sheet instructions.
var letterSamples = map[string]string{
	"rus": "Oбразец написания букв: А Б В Г Д Е Ё Ж З И Й К Л М Н О П Р С Т У Ф Х Ц Ч Ш Щ Ъ Ы Ь Э Ю Я",
	"bel": "Узор напісання літар: А Б В Г Д Е Ё Ж З І Й К Л М Н О П Р С Т У Ў Ф Х Ц Ч Ш Ы Ь Э Ю Я",
}

// ValidateCodes checks subject and language against the fixed enumerations.
func ValidateCodes(subject, language string) error {
	if _, ok := SubjectCodes[subject]; !ok {
		return fmt.Errorf("subject %q is not a valid subject code", subject)
	}
	if !Languages[language] {
		return fmt.Errorf("language %q is not a valid language", language)
	}
	return nil
}

// TranslateSection converts a Cyrillic section letter to its Latin corpus
// id. Unknown letters pass through unchanged.
func TranslateSection(section string) string {
	if t, ok := sectionTranslation[section]; ok {
		return t
	}
	return section
}

// TranslateAnswer rewrites a Russian-spelled answer into Belarusian when the
// target language is "bel". All other answers pass through unchanged.
func TranslateAnswer(answer, language string) string {
	if language != "bel" {
		return answer
	}
	if t, ok := belAnswerTranslation[answer]; ok {
		return t
	}
	return answer
}

// SectionPoints returns the point value of a question based solely on
// section identity: section A questions are worth 1 point, section B
// questions 2 points.
func SectionPoints(section string) int {
	if section == SectionA || section == sectionTranslation[SectionA] {
		return 1
	}
	return 2
}

// LetterSamples returns the handwriting-sample reference line for a
// language.
func LetterSamples(language string) (string, error) {
	s, ok := letterSamples[language]
	if !ok {
		return "", fmt.Errorf("language %q is not supported", language)
	}
	return s, nil
}
