package i18n

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"
)

func TestLocaleKeysParity(t *testing.T) {
	en := baseKeys(mustLoadLocaleMessages(t, "en"))
	ru := baseKeys(mustLoadLocaleMessages(t, "ru"))

	missingInRU := missingKeys(en, ru)
	missingInEN := missingKeys(ru, en)

	if len(missingInRU) > 0 {
		t.Errorf("keys missing in ru locale: %s", strings.Join(missingInRU, ", "))
	}
	if len(missingInEN) > 0 {
		t.Errorf("keys missing in en locale: %s", strings.Join(missingInEN, ", "))
	}
}

func mustLoadLocaleMessages(t *testing.T, language string) map[string]string {
	t.Helper()

	content, err := localeFiles.ReadFile("locales/" + language + ".json")
	if err != nil {
		t.Fatalf("read locale %q: %v", language, err)
	}

	messages := map[string]string{}
	if err := json.Unmarshal(content, &messages); err != nil {
		t.Fatalf("parse locale %q: %v", language, err)
	}
	if len(messages) == 0 {
		t.Fatalf("locale %q is empty", language)
	}

	return messages
}

// baseKeys folds plural variants so locales with different plural rules compare equal.
func baseKeys(messages map[string]string) map[string]struct{} {
	keys := make(map[string]struct{}, len(messages))
	for key := range messages {
		for _, suffix := range []string{".one", ".few", ".many", ".other"} {
			key = strings.TrimSuffix(key, suffix)
		}
		keys[key] = struct{}{}
	}
	return keys
}

func missingKeys(source map[string]struct{}, target map[string]struct{}) []string {
	missing := make([]string, 0)
	for key := range source {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
