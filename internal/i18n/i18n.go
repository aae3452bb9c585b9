// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

// Supported matches the storefront's language toggle.
var Supported = []string{"en", "hi", "kn"}

const DefaultLang = "en"

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var instance *I18n
var once sync.Once
var initErr error

func Initialize() error {
	once.Do(func() {
		instance = &I18n{
			translations: make(map[string]map[string]string),
			defaultLang:  DefaultLang,
		}
		initErr = instance.LoadTranslations(Supported)
	})
	return initErr
}

func (i *I18n) LoadTranslations(langs []string) error {
	for _, lang := range langs {
		filePath := "locales/" + lang + ".json"

		data, err := localeFS.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", filePath, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to unmarshal locale file %s: %w", filePath, err)
		}

		i.mu.Lock()
		i.translations[lang] = translations
		i.mu.Unlock()
	}

	return nil
}

func (i *I18n) lookup(lang, key string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if translations, exists := i.translations[lang]; exists {
		if text, exists := translations[key]; exists {
			return text, true
		}
	}
	if lang != i.defaultLang {
		if text, exists := i.translations[i.defaultLang][key]; exists {
			return text, true
		}
	}
	return "", false
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	text, ok := i.lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// T translates key, loading the embedded tables on first use.
func T(lang, key string, args ...interface{}) string {
	if err := Initialize(); err != nil {
		return key
	}
	return instance.T(lang, key, args...)
}

// TOr translates key or returns fallback when no table has it.
func TOr(lang, key, fallback string) string {
	if key == "" || Initialize() != nil {
		return fallback
	}
	if text, ok := instance.lookup(lang, key); ok {
		return text
	}
	return fallback
}

// Normalize maps an Accept-Language header to a supported language.
func Normalize(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.Split(part, ";")[0]))
		if tag == "" {
			continue
		}
		base := strings.SplitN(strings.ReplaceAll(tag, "_", "-"), "-", 2)[0]
		for _, lang := range Supported {
			if base == lang {
				return lang
			}
		}
	}
	return DefaultLang
}
