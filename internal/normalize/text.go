package normalize

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	anidbLinkRE   = regexp.MustCompile(`https?://(www\.)?anidb\.net/\S+\s\[([^\]]+)\]`)
	multiSpaceRE  = regexp.MustCompile(` {2,}`)
	quoteReplacer = strings.NewReplacer(
		"`", "'",
		"’", "'",
		"“", `"`,
		"”", `"`,
		"…", "...",
		"—", "-",
		`."`, `".`,
		`,"`, `",`,
		`;"`, `";`,
	)
)

// Capitalize title-cases a tag on word and hyphen boundaries and squeezes
// internal whitespace: "sci-fi" becomes "Sci-Fi".
func Capitalize(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return ""
	}
	return cases.Title(language.English).String(value)
}

// ReverseNameOrder turns "Yamada, Taro" or "Yamada Taro" into "Taro Yamada".
func ReverseNameOrder(value string) string {
	fields := strings.Fields(strings.ReplaceAll(value, ",", " "))
	for i, j := 0, len(fields)-1; i < j; i, j = i+1, j-1 {
		fields[i], fields[j] = fields[j], fields[i]
	}
	return strings.Join(fields, " ")
}

// CleanText normalizes free-form plot or description text: HTML markup is
// stripped, typographic quotes are straightened, AniDB inline links are
// reduced to their label, and "Source:"/"Note:" trailer lines are dropped.
func CleanText(value string) string {
	if value == "" {
		return ""
	}
	if strings.ContainsRune(value, '<') {
		value = StripHTML(value)
	}

	value = quoteReplacer.Replace(value)
	value = multiSpaceRE.ReplaceAllString(value, " ")
	value = anidbLinkRE.ReplaceAllString(value, "$2")

	var lines []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*"))
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "source:") || strings.HasPrefix(lower, "note:") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// StripHTML reduces markup to its text content, decoding entities.
func StripHTML(value string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(value))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "br" {
				b.WriteString("\n")
			}
		}
	}
}

// CollectStaff gathers the names of every staff position whose label contains
// one of the needles, case-insensitively. The result is deduplicated and
// sorted.
func CollectStaff(staff map[string][]string, needles ...string) []string {
	set := map[string]struct{}{}
	for position, names := range staff {
		for _, needle := range needles {
			if strings.Contains(strings.ToLower(position), strings.ToLower(needle)) {
				for _, name := range names {
					set[name] = struct{}{}
				}
				break
			}
		}
	}

	if len(set) == 0 {
		return nil
	}
	result := make([]string, 0, len(set))
	for name := range set {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
