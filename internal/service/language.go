package service

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// minDetectRunes is the shortest text worth running detection on
const minDetectRunes = 40

// LanguageMismatch describes a transcript whose detected language differs
// from the one requested
type LanguageMismatch struct {
	Requested language.Tag
	Detected  language.Tag
}

// CheckLanguage detects the language of text and compares its base language
// with want. It returns nil when they match, when text is too short, or when
// detection is not reliable.
func CheckLanguage(text string, want language.Tag) *LanguageMismatch {
	if len([]rune(text)) < minDetectRunes {
		return nil
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return nil
	}

	detected, err := language.Parse(info.Lang.Iso6391())
	if err != nil {
		return nil
	}

	wantBase, _ := want.Base()
	detectedBase, _ := detected.Base()
	if wantBase == detectedBase {
		return nil
	}

	return &LanguageMismatch{
		Requested: want,
		Detected:  detected,
	}
}
