package checkout

import "strings"

// localeByLanguage maps storefront language codes onto gateway locale
// identifiers. Supporting another language is a row here, not a new branch.
var localeByLanguage = map[string]string{
	"de": "de",
}

// ResolveLocale returns the gateway locale for a storefront language code.
// Unrecognized, empty, and missing codes fall back instead of erroring so an
// odd Accept-Language never blocks a checkout.
func ResolveLocale(language, fallback string) string {
	if locale, ok := localeByLanguage[strings.ToLower(strings.TrimSpace(language))]; ok {
		return locale
	}
	return fallback
}
