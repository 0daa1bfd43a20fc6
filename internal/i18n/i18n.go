// Package i18n renders the short user-facing messages of the client.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	EmployeesLoadFailed     = "employees.load_failed"
	DocumentationLoadFailed = "documentation.load_failed"
	ResearchLoadFailed      = "research.load_failed"
	LoginFailed             = "auth.login_failed"
	SessionExpired          = "auth.session_expired"
	NotFound                = "resource.not_found"
)

var supported = []language.Tag{language.Russian, language.English}

var matcher = language.NewMatcher(supported)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Russian))

	ru := map[string]string{
		EmployeesLoadFailed:     "Не удалось загрузить список сотрудников",
		DocumentationLoadFailed: "Не удалось загрузить список документов",
		ResearchLoadFailed:      "Не удалось загрузить список исследований",
		LoginFailed:             "Ошибка входа",
		SessionExpired:          "Сессия истекла, войдите снова",
		NotFound:                "Не найдено",
	}
	en := map[string]string{
		EmployeesLoadFailed:     "Could not load the employee list",
		DocumentationLoadFailed: "Could not load the document list",
		ResearchLoadFailed:      "Could not load the research list",
		LoginFailed:             "Login failed",
		SessionExpired:          "Session expired, please log in again",
		NotFound:                "Not found",
	}

	// the tables are static, so a rejected entry is a programming error
	for tag, table := range map[language.Tag]map[string]string{language.Russian: ru, language.English: en} {
		for key, msg := range table {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("i18n: %s %s: %v", tag, key, err))
			}
		}
	}
	return b
}

var messages = newCatalog()

// Localizer renders message keys in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for locale ("ru", "en-GB", ...). Unsupported or
// malformed locales fall back to Russian.
func New(locale string) *Localizer {
	tag := language.Russian
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Default is the Russian localizer.
func Default() *Localizer {
	return New("ru")
}

// Language returns the resolved language.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// T renders key.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}
