package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageOption is an entry of the language report menu.
type LanguageOption struct {
	Code string
	Name string
}

// MenuLanguages are the languages offered by the language report, in menu order.
var MenuLanguages = []LanguageOption{
	{Code: "en", Name: LanguageName("en")},
	{Code: "fr", Name: LanguageName("fr")},
	{Code: "de", Name: LanguageName("de")},
	{Code: "pt", Name: LanguageName("pt")},
	{Code: "es", Name: LanguageName("es")},
}

var languageNamer = display.English.Languages()

// LanguageName returns the English name of an ISO-639-1 code, or the code
// itself when it is not recognised.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := languageNamer.Name(tag)
	if name == "" {
		return code
	}
	return name
}
