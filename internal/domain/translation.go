package domain

import "encoding/json"

// DefaultLang is the fallback language for localized text.
const DefaultLang = "en"

// LocalizedText is a stored text field carrying per-language variants.
// It round-trips as a JSON object keyed by language code; a bare string is
// accepted on decode and treated as the default-language value.
type LocalizedText map[string]string

// PlainText wraps a single untranslated string as localized text.
func PlainText(s string) LocalizedText {
	return LocalizedText{DefaultLang: s}
}

// Resolve returns the variant for lang, falling back to the default language
// and then to any variant present. Resolution happens at the presentation
// boundary; the core stores the full mapping.
func (t LocalizedText) Resolve(lang string) string {
	if len(t) == 0 {
		return ""
	}
	if s, ok := t[lang]; ok {
		return s
	}
	if s, ok := t[DefaultLang]; ok {
		return s
	}
	for _, s := range t {
		return s
	}
	return ""
}

// MarshalJSON encodes the full language mapping.
func (t LocalizedText) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string(t))
}

// UnmarshalJSON accepts either a language map or a bare string.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		*t = m
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = PlainText(s)
	return nil
}
