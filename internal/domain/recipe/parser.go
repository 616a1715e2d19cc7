package recipe

import "strings"

// ParsedRecipe is the structured form of assistant output
type ParsedRecipe struct {
	Title       string
	Ingredients string
	Steps       string
}

type section int

const (
	sectionNone section = iota
	sectionTitle
	sectionIngredients
	sectionSteps
)

var sectionHeaders = []struct {
	prefix  string
	section section
}{
	{"title:", sectionTitle},
	{"ingredients:", sectionIngredients},
	{"steps:", sectionSteps},
	{"directions:", sectionSteps},
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ParseGeneratedRecipe splits free text into title, ingredients and steps.
//
// A section starts at a line whose stripped form begins with one of the
// headers "Title:", "Ingredients:", "Steps:" or "Directions:" (any case).
// Text following the header on the same line belongs to the section. Blank
// lines are dropped and the remaining lines of each section are joined with
// newlines. CRLF and lone CR both end a line. Text before the first header is
// ignored and missing sections come back empty; the parser never fails.
func ParseGeneratedRecipe(text string) ParsedRecipe {
	buckets := map[section][]string{}
	current := sectionNone

	for _, raw := range strings.Split(lineEndings.Replace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if s, rest, ok := matchHeader(line); ok {
			current = s
			line = strings.TrimSpace(rest)
			if line == "" {
				continue
			}
		}

		if current == sectionNone {
			continue
		}
		buckets[current] = append(buckets[current], line)
	}

	join := func(s section) string {
		return strings.TrimSpace(strings.Join(buckets[s], "\n"))
	}

	return ParsedRecipe{
		Title:       join(sectionTitle),
		Ingredients: join(sectionIngredients),
		Steps:       join(sectionSteps),
	}
}

func matchHeader(line string) (section, string, bool) {
	for _, h := range sectionHeaders {
		if len(line) >= len(h.prefix) && strings.EqualFold(line[:len(h.prefix)], h.prefix) {
			return h.section, line[len(h.prefix):], true
		}
	}
	return sectionNone, "", false
}
