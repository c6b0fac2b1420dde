// Package langmeta maps Crowdin language IDs to display metadata.
//
// Crowdin identifies target languages with BCP-47-like IDs: a lowercase
// base ("uk", "pt") optionally followed by an uppercase region
// ("pt-BR", "zh-TW"). Resolve accepts those IDs plus common spelling
// variants (underscores, odd casing) and falls back from a regional ID
// to its base language, so reports always get a readable name.
package langmeta

import (
	"fmt"
	"strings"
)

// Meta is the display metadata for one language.
type Meta struct {
	Name string
	Flag string
}

// bases covers the two-letter Crowdin IDs.
var bases = map[string]Meta{
	"af": {Name: "Afrikaans", Flag: "🇿🇦"},
	"am": {Name: "አማርኛ", Flag: "🇪🇹"},
	"ar": {Name: "العربية", Flag: "🇸🇦"},
	"az": {Name: "Azərbaycanca", Flag: "🇦🇿"},
	"be": {Name: "Беларуская", Flag: "🇧🇾"},
	"bg": {Name: "Български", Flag: "🇧🇬"},
	"bn": {Name: "বাংলা", Flag: "🇧🇩"},
	"bs": {Name: "Bosanski", Flag: "🇧🇦"},
	"ca": {Name: "Català", Flag: "🇪🇸"},
	"cs": {Name: "Čeština", Flag: "🇨🇿"},
	"cy": {Name: "Cymraeg", Flag: "🇬🇧"},
	"da": {Name: "Dansk", Flag: "🇩🇰"},
	"de": {Name: "Deutsch", Flag: "🇩🇪"},
	"el": {Name: "Ελληνικά", Flag: "🇬🇷"},
	"en": {Name: "English", Flag: "🇺🇸"},
	"es": {Name: "Español", Flag: "🇪🇸"},
	"et": {Name: "Eesti", Flag: "🇪🇪"},
	"eu": {Name: "Euskara", Flag: "🇪🇸"},
	"fa": {Name: "فارسی", Flag: "🇮🇷"},
	"fi": {Name: "Suomi", Flag: "🇫🇮"},
	"fr": {Name: "Français", Flag: "🇫🇷"},
	"ga": {Name: "Gaeilge", Flag: "🇮🇪"},
	"gl": {Name: "Galego", Flag: "🇪🇸"},
	"gu": {Name: "ગુજરાતી", Flag: "🇮🇳"},
	"he": {Name: "עברית", Flag: "🇮🇱"},
	"hi": {Name: "हिन्दी", Flag: "🇮🇳"},
	"hr": {Name: "Hrvatski", Flag: "🇭🇷"},
	"hu": {Name: "Magyar", Flag: "🇭🇺"},
	"hy": {Name: "Հայերեն", Flag: "🇦🇲"},
	"id": {Name: "Bahasa Indonesia", Flag: "🇮🇩"},
	"is": {Name: "Íslenska", Flag: "🇮🇸"},
	"it": {Name: "Italiano", Flag: "🇮🇹"},
	"ja": {Name: "日本語", Flag: "🇯🇵"},
	"ka": {Name: "ქართული", Flag: "🇬🇪"},
	"kk": {Name: "Қазақ тілі", Flag: "🇰🇿"},
	"km": {Name: "ខ្មែរ", Flag: "🇰🇭"},
	"ko": {Name: "한국어", Flag: "🇰🇷"},
	"lo": {Name: "ລາວ", Flag: "🇱🇦"},
	"lt": {Name: "Lietuvių", Flag: "🇱🇹"},
	"lv": {Name: "Latviešu", Flag: "🇱🇻"},
	"mk": {Name: "Македонски", Flag: "🇲🇰"},
	"ml": {Name: "മലയാളം", Flag: "🇮🇳"},
	"mn": {Name: "Монгол", Flag: "🇲🇳"},
	"mr": {Name: "मराठी", Flag: "🇮🇳"},
	"ms": {Name: "Bahasa Melayu", Flag: "🇲🇾"},
	"mt": {Name: "Malti", Flag: "🇲🇹"},
	"my": {Name: "မြန်မာ", Flag: "🇲🇲"},
	"nb": {Name: "Norsk bokmål", Flag: "🇳🇴"},
	"ne": {Name: "नेपाली", Flag: "🇳🇵"},
	"nl": {Name: "Nederlands", Flag: "🇳🇱"},
	"nn": {Name: "Norsk nynorsk", Flag: "🇳🇴"},
	"no": {Name: "Norsk", Flag: "🇳🇴"},
	"pa": {Name: "ਪੰਜਾਬੀ", Flag: "🇮🇳"},
	"pl": {Name: "Polski", Flag: "🇵🇱"},
	"ps": {Name: "پښتو", Flag: "🇦🇫"},
	"pt": {Name: "Português", Flag: "🇵🇹"},
	"ro": {Name: "Română", Flag: "🇷🇴"},
	"ru": {Name: "Русский", Flag: "🇷🇺"},
	"si": {Name: "සිංහල", Flag: "🇱🇰"},
	"sk": {Name: "Slovenčina", Flag: "🇸🇰"},
	"sl": {Name: "Slovenščina", Flag: "🇸🇮"},
	"sq": {Name: "Shqip", Flag: "🇦🇱"},
	"sr": {Name: "Српски", Flag: "🇷🇸"},
	"sv": {Name: "Svenska", Flag: "🇸🇪"},
	"sw": {Name: "Kiswahili", Flag: "🇹🇿"},
	"ta": {Name: "தமிழ்", Flag: "🇮🇳"},
	"te": {Name: "తెలుగు", Flag: "🇮🇳"},
	"th": {Name: "ไทย", Flag: "🇹🇭"},
	"tr": {Name: "Türkçe", Flag: "🇹🇷"},
	"uk": {Name: "Українська", Flag: "🇺🇦"},
	"ur": {Name: "اردو", Flag: "🇵🇰"},
	"uz": {Name: "O'zbek", Flag: "🇺🇿"},
	"vi": {Name: "Tiếng Việt", Flag: "🇻🇳"},
	"xh": {Name: "isiXhosa", Flag: "🇿🇦"},
	"yo": {Name: "Yorùbá", Flag: "🇳🇬"},
	"zh": {Name: "中文", Flag: "🇨🇳"},
	"zu": {Name: "isiZulu", Flag: "🇿🇦"},
}

// regional covers the region-qualified IDs Crowdin offers as distinct
// target languages. Any regional ID missing here falls back to bases.
var regional = map[string]Meta{
	"ar-EG": {Name: "العربية (مصر)", Flag: "🇪🇬"},
	"de-AT": {Name: "Deutsch (Österreich)", Flag: "🇦🇹"},
	"de-CH": {Name: "Deutsch (Schweiz)", Flag: "🇨🇭"},
	"en-AU": {Name: "English (Australia)", Flag: "🇦🇺"},
	"en-CA": {Name: "English (Canada)", Flag: "🇨🇦"},
	"en-GB": {Name: "English (UK)", Flag: "🇬🇧"},
	"en-IN": {Name: "English (India)", Flag: "🇮🇳"},
	"en-US": {Name: "English (US)", Flag: "🇺🇸"},
	"es-AR": {Name: "Español (Argentina)", Flag: "🇦🇷"},
	"es-ES": {Name: "Español (España)", Flag: "🇪🇸"},
	"es-MX": {Name: "Español (México)", Flag: "🇲🇽"},
	"fr-BE": {Name: "Français (Belgique)", Flag: "🇧🇪"},
	"fr-CA": {Name: "Français (Canada)", Flag: "🇨🇦"},
	"fr-CH": {Name: "Français (Suisse)", Flag: "🇨🇭"},
	"fr-QC": {Name: "Français (Québec)", Flag: "🇨🇦"},
	"nl-BE": {Name: "Nederlands (België)", Flag: "🇧🇪"},
	"pt-BR": {Name: "Português (Brasil)", Flag: "🇧🇷"},
	"pt-PT": {Name: "Português (Portugal)", Flag: "🇵🇹"},
	"sv-SE": {Name: "Svenska", Flag: "🇸🇪"},
	"zh-CN": {Name: "简体中文", Flag: "🇨🇳"},
	"zh-HK": {Name: "繁體中文 (香港)", Flag: "🇭🇰"},
	"zh-TW": {Name: "繁體中文", Flag: "🇹🇼"},
}

// canonicalize rewrites spelling variants ("pt_br", " PT-BR ") into the
// Crowdin form: lowercase base, dash separator, uppercase region.
func canonicalize(id string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(id), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

func lookup(id string) (Meta, bool) {
	if m, ok := regional[id]; ok {
		return m, true
	}
	m, ok := bases[id]
	return m, ok
}

// Resolve returns display metadata for a Crowdin language ID. Unknown
// regional IDs resolve to their base language; a completely unknown ID
// comes back with the ID itself as the name and no flag.
func Resolve(id string) Meta {
	if m, ok := lookup(id); ok {
		return m
	}
	canonical := canonicalize(id)
	if m, ok := lookup(canonical); ok {
		return m
	}
	if base, _, found := strings.Cut(canonical, "-"); found {
		if m, ok := bases[base]; ok {
			return m
		}
	}
	return Meta{Name: id}
}

// Display renders an ID for report output: flag, native name and the
// raw ID, degrading gracefully for unknown languages.
func Display(id string) string {
	m := Resolve(id)
	if m.Name == id {
		return id
	}
	if m.Flag == "" {
		return fmt.Sprintf("%s (%s)", m.Name, id)
	}
	return fmt.Sprintf("%s %s (%s)", m.Flag, m.Name, id)
}
