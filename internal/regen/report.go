package regen

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgRegenerated = "%d photos have been regenerated"
	msgFailed      = "%d photos can not be regenerated"
	msgPlanned     = "%d photos would be regenerated"
)

func init() {
	_ = message.SetString(language.French, msgRegenerated, "%d photos ont été régénérées")
	_ = message.SetString(language.French, msgFailed, "%d photos ne peuvent pas être régénérées")
	_ = message.SetString(language.French, msgPlanned, "%d photos seraient régénérées")
	_ = message.SetString(language.German, msgRegenerated, "%d Fotos wurden neu erzeugt")
	_ = message.SetString(language.German, msgFailed, "%d Fotos können nicht neu erzeugt werden")
	_ = message.SetString(language.German, msgPlanned, "%d Fotos würden neu erzeugt")
}

// ParseLocale returns the language tag for a locale name such as "fr" or
// "de-CH", falling back to English.
func ParseLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Lines renders the summary in the given language. The failure line is only
// present when something failed.
func (s Summary) Lines(tag language.Tag) []string {
	p := message.NewPrinter(tag)
	if len(s.Planned) > 0 && s.Regenerated == 0 && s.Failed == 0 {
		return []string{p.Sprintf(msgPlanned, len(s.Planned))}
	}
	lines := []string{p.Sprintf(msgRegenerated, s.Regenerated)}
	if s.Failed > 0 {
		lines = append(lines, p.Sprintf(msgFailed, s.Failed))
	}
	return lines
}
