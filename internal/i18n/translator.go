// Package i18n provides the translation function used by the upload control.
//
// Messages live in embedded YAML files named after their BCP 47 tag. A value
// is either a plain string or a map of plural forms (zero, one, two, few,
// many, other, or =N) whose text takes the count through %d.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Params carries named arguments for a message. "count" selects the plural form.
type Params map[string]any

// Bundle holds every loaded language.
type Bundle struct {
	cat     *catalog.Builder
	tags    []language.Tag // tags[0] is the default
	keys    map[language.Tag]map[string]struct{}
	matcher language.Matcher
}

// NewBundle loads the embedded locales with defaultLocale as the fallback.
func NewBundle(defaultLocale string) (*Bundle, error) {
	sub, err := fs.Sub(localeFS, "locales")
	if err != nil {
		return nil, err
	}
	return LoadBundle(sub, defaultLocale)
}

// LoadBundle reads every *.yaml file at the root of fsys.
func LoadBundle(fsys fs.FS, defaultLocale string) (*Bundle, error) {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("default locale %q: %w", defaultLocale, err)
	}

	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}

	cat := catalog.NewBuilder(catalog.Fallback(def))
	tags := []language.Tag{def}
	keys := make(map[language.Tag]map[string]struct{})
	hasDefault := false

	for _, name := range names {
		tag, err := language.Parse(strings.TrimSuffix(path.Base(name), ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("locale file %s: %w", name, err)
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		var entries map[string]any
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		known := make(map[string]struct{}, len(entries))
		for key, v := range entries {
			if err := setMessage(cat, tag, key, v); err != nil {
				return nil, fmt.Errorf("%s: %s: %w", name, key, err)
			}
			known[key] = struct{}{}
		}
		keys[tag] = known
		if tag == def {
			hasDefault = true
			continue
		}
		tags = append(tags, tag)
	}
	if !hasDefault {
		return nil, fmt.Errorf("no messages for default locale %q", defaultLocale)
	}

	return &Bundle{cat: cat, tags: tags, keys: keys, matcher: language.NewMatcher(tags)}, nil
}

func setMessage(cat *catalog.Builder, tag language.Tag, key string, v any) error {
	switch msg := v.(type) {
	case string:
		return cat.SetString(tag, key, msg)
	case map[string]any:
		forms := make([]string, 0, len(msg))
		for form := range msg {
			forms = append(forms, form)
		}
		// "other" is the catch-all and has to come last.
		sort.Slice(forms, func(i, j int) bool {
			if forms[i] == "other" || forms[j] == "other" {
				return forms[j] == "other" && forms[i] != "other"
			}
			return forms[i] < forms[j]
		})
		cases := make([]any, 0, 2*len(forms))
		for _, form := range forms {
			text, ok := msg[form].(string)
			if !ok {
				return fmt.Errorf("plural form %q is not a string", form)
			}
			cases = append(cases, form, text)
		}
		return cat.Set(tag, key, plural.Selectf(1, "%d", cases...))
	default:
		return fmt.Errorf("unsupported message type %T", v)
	}
}

// Languages lists the loaded languages, default first.
func (b *Bundle) Languages() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Match picks the best loaded language for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return b.tags[0]
	}
	_, idx, conf := b.matcher.Match(prefs...)
	if conf == language.No {
		return b.tags[0]
	}
	return b.tags[idx]
}

// Translator returns the translation function for tag.
func (b *Bundle) Translator(tag language.Tag) *Translator {
	def := b.tags[0]
	return &Translator{
		tag:      tag,
		p:        message.NewPrinter(tag, message.Catalog(b.cat)),
		def:      message.NewPrinter(def, message.Catalog(b.cat)),
		own:      b.keys[tag],
		fallback: b.keys[def],
	}
}

// Translator is the t(key, params) function of one language.
type Translator struct {
	tag      language.Tag
	p        *message.Printer
	def      *message.Printer // default language
	own      map[string]struct{}
	fallback map[string]struct{}
}

func (t *Translator) Language() language.Tag { return t.tag }

// T returns the message for key, falling back to the default language.
// Unknown keys come back unchanged.
func (t *Translator) T(key string, params Params) string {
	p := t.p
	if _, ok := t.own[key]; !ok {
		if _, ok := t.fallback[key]; !ok {
			return key
		}
		p = t.def
	}
	if n, ok := params["count"]; ok {
		return p.Sprintf(key, n)
	}
	return p.Sprintf(key)
}
