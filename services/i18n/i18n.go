// Package i18n serves the dashboard and export labels in English and Spanish.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

//go:embed *.json
var files embed.FS

var (
	mu           sync.RWMutex
	catalogs     = make(map[string]map[string]string) // "es" -> "dashboard.months.1" -> "Ene"
	fallbackLang = "en"
)

// Load reads every embedded <lang>.json catalog.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := files.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to read embedded catalogs: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		content, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read catalog %s: %w", name, err)
		}
		var nested map[string]interface{}
		if err := json.Unmarshal(content, &nested); err != nil {
			return fmt.Errorf("failed to parse catalog %s: %w", name, err)
		}

		flat := make(map[string]string)
		flatten("", nested, flat)
		lang := strings.TrimSuffix(name, ".json")
		catalogs[lang] = flat
		zap.S().Debugw("Loaded catalog", "lang", lang, "keys", len(flat))
	}
	return nil
}

// SetDefault changes the fallback language when it has a catalog.
func SetDefault(lang string) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := catalogs[lang]; ok {
		fallbackLang = lang
	}
}

// Default returns the fallback language.
func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return fallbackLang
}

// Supported lists the loaded languages in alphabetical order.
func Supported() []string {
	mu.RLock()
	defer mu.RUnlock()
	langs := make([]string, 0, len(catalogs))
	for lang := range catalogs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// IsSupported reports whether a catalog exists for lang.
func IsSupported(lang string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := catalogs[lang]
	return ok
}

func flatten(prefix string, nested map[string]interface{}, out map[string]string) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]interface{}:
			flatten(key, child, out)
		case string:
			out[key] = child
		default:
			out[key] = fmt.Sprintf("%v", child)
		}
	}
}

// T translates key into the language stored on ctx.
func T(ctx context.Context, key string, args ...map[string]interface{}) string {
	return Translate(GetLocale(ctx), key, args...)
}

// Translate looks key up in lang, then in the fallback language, and
// finally returns the key itself. {name} placeholders are filled from args.
func Translate(lang, key string, args ...map[string]interface{}) string {
	mu.RLock()
	defer mu.RUnlock()

	if text, ok := catalogs[lang][key]; ok {
		return format(text, args...)
	}
	if text, ok := catalogs[fallbackLang][key]; ok {
		return format(text, args...)
	}
	return key
}

func format(text string, args ...map[string]interface{}) string {
	if len(args) == 0 {
		return text
	}
	for k, v := range args[0] {
		text = strings.ReplaceAll(text, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return text
}

type contextKey string

// LocaleContextKey stores the request language on a context.
const LocaleContextKey contextKey = "locale"

// WithLocale returns a copy of ctx carrying lang.
func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, LocaleContextKey, lang)
}

// GetLocale returns the language on ctx or the fallback language.
func GetLocale(ctx context.Context) string {
	if lang, ok := ctx.Value(LocaleContextKey).(string); ok && lang != "" {
		return lang
	}
	return Default()
}
