package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"

	"telegram-scam-guard/internal/domain/model"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// Translator renders canned texts for one language. Keys that are missing
// come back verbatim so a bad key is visible instead of silent.
type Translator struct {
	translations map[string]string
	educationTxt string
}

// NewTranslator loads locales/<langCode>.yaml plus the language's scam
// education sheet (locales/education-<langCode>.txt) from any fs.FS.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := filepath.Join("locales", fmt.Sprintf("%s.yaml", langCode))
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}

	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}

	eduPath := filepath.Join("locales", fmt.Sprintf("education-%s.txt", langCode))
	eduBytes, err := fs.ReadFile(fsys, eduPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read education file %s: %w", eduPath, err)
	}

	return &Translator{
		translations: translations,
		educationTxt: string(eduBytes),
	}, nil
}

func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

func (t *Translator) Education() string {
	return t.educationTxt
}

// Bundle holds one Translator per supported language and routes by
// model.Language. An unsupported language falls back to English.
type Bundle struct {
	byLang map[model.Language]*Translator
}

func NewBundle(fsys fs.FS, langs ...model.Language) (*Bundle, error) {
	if len(langs) == 0 {
		langs = []model.Language{model.LangEnglish, model.LangHindi}
	}
	b := &Bundle{byLang: make(map[model.Language]*Translator, len(langs))}
	for _, lang := range langs {
		tr, err := NewTranslator(fsys, string(lang))
		if err != nil {
			return nil, err
		}
		b.byLang[lang] = tr
	}
	if _, ok := b.byLang[model.LangEnglish]; !ok {
		return nil, fmt.Errorf("bundle requires an english locale")
	}
	return b, nil
}

func (b *Bundle) pick(lang model.Language) *Translator {
	if tr, ok := b.byLang[lang]; ok {
		return tr
	}
	return b.byLang[model.LangEnglish]
}

func (b *Bundle) T(lang model.Language, key string, args ...interface{}) string {
	return b.pick(lang).T(key, args...)
}

func (b *Bundle) Education(lang model.Language) string {
	return b.pick(lang).Education()
}
