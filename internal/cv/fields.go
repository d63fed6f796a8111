package cv

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	phonePattern      = regexp.MustCompile(`\b\d{10}\b`)
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	experiencePattern = regexp.MustCompile(`\b\d+ years\b`)
	yearPattern       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	degreeStrip       = regexp.MustCompile(`[?|$.!,]`)
)

// Degrees lists the recognised qualifications in their display spelling.
var Degrees = []string{
	"B.Tech", "M.Tech", "B.Sc", "M.Sc", "PhD", "MBA", "B.E", "B.Com", "B.A", "BBA", "BCA",
	"M.E", "M.Com", "M.A", "MCA", "M.Phil", "MBBS", "BDS", "B.Pharm", "M.Pharm",
	"B.Ed", "M.Ed", "B.Arch", "M.Arch", "LLB", "LLM", "MD", "MS", "DNB", "CA", "CS",
	"ICWA", "Diploma", "Certificate Course",
}

// degreeIndex maps the normalized spelling (punctuation stripped, upper case) to the display one.
var degreeIndex = func() map[string]string {
	idx := make(map[string]string, len(Degrees))
	for _, d := range Degrees {
		idx[normalizeDegree(d)] = d
	}
	return idx
}()

func normalizeDegree(s string) string {
	return strings.ToUpper(degreeStrip.ReplaceAllString(s, ""))
}

// ExtractNames returns the first pair of adjacent proper nouns whose text
// does not mention "name", e.g. skipping a "Full Name" heading.
func ExtractNames(tokens []Token) (first, last string) {
	for i := 0; i+1 < len(tokens); i++ {
		a, b := tokens[i], tokens[i+1]
		if !a.IsProperNoun() || !b.IsProperNoun() {
			continue
		}
		span := a.Text + " " + b.Text
		if strings.Contains(strings.ToLower(span), "name") {
			continue
		}
		parts := strings.Fields(span)
		if len(parts) >= 2 {
			return parts[0], parts[len(parts)-1]
		}
	}
	return "", ""
}

// ExtractPhoneNumbers returns every standalone ten digit run.
func ExtractPhoneNumbers(text string) []string {
	found := phonePattern.FindAllString(text, -1)
	if found == nil {
		return []string{}
	}
	return found
}

// ExtractEmail returns the first whitespace-delimited token containing "@".
// Punctuation glued to the address by the surrounding prose is dropped.
func ExtractEmail(text string) string {
	m := emailPattern.FindString(text)
	if m == "" {
		return ""
	}
	m = strings.TrimLeft(m, `,;:()<>"'[]`)
	m = strings.TrimRight(m, `,;:()<>"'[].`)
	if !strings.Contains(m, "@") {
		return ""
	}
	return m
}

// Qualification is a degree with the graduation year when one follows it.
type Qualification struct {
	Degree string `json:"degree"`
	Year   string `json:"year,omitempty"`
}

// ExtractQualification finds known degrees among tokens. Each degree is reported
// once, in first-seen order; the year is taken from the last occurrence's window
// (the degree token plus the token after it).
func ExtractQualification(tokens []Token, stopwords map[string]struct{}) []Qualification {
	var order []string
	windows := make(map[string]string)

	for i, tok := range tokens {
		for _, word := range strings.Fields(tok.Text) {
			if isStopword(word, stopwords) {
				continue
			}
			degree, ok := degreeIndex[normalizeDegree(word)]
			if !ok {
				continue
			}
			window := tok.Text
			if i+1 < len(tokens) {
				window += " " + tokens[i+1].Text
			}
			if _, seen := windows[degree]; !seen {
				order = append(order, degree)
			}
			windows[degree] = window
		}
	}

	out := make([]Qualification, 0, len(order))
	for _, degree := range order {
		out = append(out, Qualification{
			Degree: degree,
			Year:   yearPattern.FindString(windows[degree]),
		})
	}
	return out
}

// isStopword reports whether word is an English stopword. All-caps words such as
// "BE" or "MA" are abbreviations and never count as stopwords.
func isStopword(word string, stopwords map[string]struct{}) bool {
	trimmed := strings.Trim(word, ",;:!?")
	if strings.ToUpper(trimmed) == trimmed && strings.ToLower(trimmed) != trimmed {
		return false
	}
	_, stop := stopwords[strings.ToLower(trimmed)]
	return stop
}

// ExtractExperience returns the first "<n> years" phrase.
func ExtractExperience(text string) string {
	return experiencePattern.FindString(text)
}

// ExtractSkillset reports every skill that occurs anywhere in text, ignoring case.
// Matching is by plain substring, so "Java" also matches inside "JavaScript".
func ExtractSkillset(text string, skills []string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, skill := range skills {
		if skill != "" && strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

// ExtractJobRole returns the first listed role that occurs in text, ignoring case.
func ExtractJobRole(text string, roles []string) string {
	lower := strings.ToLower(text)
	for _, role := range roles {
		if role != "" && strings.Contains(lower, strings.ToLower(role)) {
			return role
		}
	}
	return ""
}

// ExtractLocation returns the first geopolitical entity that names a known
// place. The tagger also labels degrees and skills as GPE, so when places has
// entries an entity only counts if it contains one of them; failing that, the
// earliest known place in text is used. Without a gazetteer the first GPE wins.
func ExtractLocation(entities []Entity, text string, places *Gazetteer) string {
	if places.Len() == 0 {
		for _, e := range entities {
			if e.Label == LabelGPE {
				return e.Text
			}
		}
		return ""
	}
	for _, e := range entities {
		if e.Label != LabelGPE {
			continue
		}
		if place := places.Find(e.Text); place != "" {
			return place
		}
	}
	return places.Find(text)
}

// CapitalizeName upper-cases the first letter of each name and lower-cases the rest.
func CapitalizeName(first, last string) (string, string) {
	return capitalize(first), capitalize(last)
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
