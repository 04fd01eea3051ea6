package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	domintent "github.com/kailas-cloud/shopdex/internal/domain/search/intent"
)

// approxSpread is the relative width of an "about N" price band.
const approxSpread = 0.2

// lookbehind is the number of neighbouring tokens inspected for a price phrase.
const lookbehind = 3

var numberRun = regexp.MustCompile(`\d+(?:\.\d+)?`)

// RuleExtractor derives a SearchIntent from table lookups only. It performs no I/O.
type RuleExtractor struct {
	rules *Rules
}

// NewRuleExtractor creates a RuleExtractor. Nil rules select the built-in tables.
func NewRuleExtractor(rules *Rules) *RuleExtractor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &RuleExtractor{rules: rules}
}

// Extract never fails: unrecognised input yields an unconstrained intent.
func (e *RuleExtractor) Extract(query string) domintent.SearchIntent {
	lowered := strings.ToLower(query)
	tokens := strings.Fields(lowered)

	category := e.matchCategory(lowered)
	productType := domintent.Unconstrained
	var brands, aliases []string
	if category != nil {
		productType = category.Name
		brands, aliases = matchBrands(category, lowered)
	}

	scan := newPriceScan(e.rules.Price, tokens)
	priceRange := scan.run()

	keywords := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if scan.consumed[i] || utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		if category != nil && containsAny(tok, category.Triggers) {
			continue
		}
		if containsAny(tok, aliases) {
			continue
		}
		keywords = append(keywords, tok)
	}

	return domintent.New(productType, priceRange, brands, keywords, nil)
}

func (e *RuleExtractor) matchCategory(lowered string) *CategoryRule {
	for i := range e.rules.Categories {
		if containsAny(lowered, e.rules.Categories[i].Triggers) {
			return &e.rules.Categories[i]
		}
	}
	return nil
}

// matchBrands returns brand names in declaration order and the aliases that matched.
func matchBrands(c *CategoryRule, lowered string) (names, aliases []string) {
	for _, b := range c.Brands {
		matched := false
		for _, a := range b.Aliases {
			if strings.Contains(lowered, a) {
				aliases = append(aliases, a)
				matched = true
			}
		}
		if matched {
			names = append(names, b.Name)
		}
	}
	return names, aliases
}

type priceClass int

const (
	classNone priceClass = iota
	classBelow
	classAbove
	classApprox
)

// priceScan walks the tokens once, setting bounds and marking the tokens it used.
type priceScan struct {
	words    PriceWords
	tokens   []string
	consumed []bool

	pr        domintent.PriceRange
	bounded   bool
	firstIdx  int
	firstSeen float64
}

func newPriceScan(words PriceWords, tokens []string) *priceScan {
	return &priceScan{
		words:    words,
		tokens:   tokens,
		consumed: make([]bool, len(tokens)),
		firstIdx: -1,
	}
}

func (s *priceScan) run() domintent.PriceRange {
	for i := 0; i < len(s.tokens); i++ {
		if s.consumed[i] {
			continue
		}
		v, runs, ok := s.magnitude(s.tokens[i])
		if !ok {
			continue
		}
		if s.firstIdx < 0 {
			s.firstIdx, s.firstSeen = i, v
		}

		if hi, ok := s.inTokenRange(s.tokens[i], runs); ok {
			s.setRange(v, hi, i)
			continue
		}
		if hi, span, ok := s.crossTokenRange(i); ok {
			s.setRange(v, hi, append([]int{i}, span...)...)
			i = span[len(span)-1]
			continue
		}

		class, span := s.direction(i)
		switch class {
		case classBelow:
			s.pr.Max = v
		case classAbove:
			s.pr.Min = v
		case classApprox:
			s.pr.Min, s.pr.Max = v*(1-approxSpread), v*(1+approxSpread)
		default:
			continue
		}
		s.bounded = true
		s.consume(append(span, i)...)
	}

	if !s.bounded && s.firstIdx >= 0 {
		v := s.firstSeen
		s.pr.Min, s.pr.Max = v*(1-approxSpread), v*(1+approxSpread)
		s.consume(s.firstIdx)
	}

	return domintent.PriceRange{Min: roundCents(s.pr.Min), Max: roundCents(s.pr.Max)}
}

// magnitude parses the first numeric run of tok. Runs glued to letters
// ("iphone15", "5g") are model names, not prices.
func (s *priceScan) magnitude(tok string) (float64, [][]int, bool) {
	runs := numberRun.FindAllStringIndex(tok, -1)
	if len(runs) == 0 {
		return 0, nil, false
	}
	start, end := runs[0][0], runs[0][1]
	if start > 0 && isASCIILetter(tok[start-1]) {
		return 0, nil, false
	}
	if rest := s.stripCurrency(tok[end:]); rest != "" && isASCIILetter(rest[0]) {
		return 0, nil, false
	}
	v, err := strconv.ParseFloat(tok[start:end], 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, nil, false
	}
	return v, runs, true
}

// inTokenRange recognises "300-500" and "300元到500元" within one token.
func (s *priceScan) inTokenRange(tok string, runs [][]int) (float64, bool) {
	if len(runs) < 2 {
		return 0, false
	}
	between := strings.TrimSpace(s.stripCurrency(tok[runs[0][1]:runs[1][0]]))
	if !s.isJoin(between) {
		return 0, false
	}
	hi, err := strconv.ParseFloat(tok[runs[1][0]:runs[1][1]], 64)
	if err != nil || math.IsInf(hi, 0) {
		return 0, false
	}
	return hi, true
}

// crossTokenRange recognises "300 到 500" and "300 到500".
func (s *priceScan) crossTokenRange(i int) (float64, []int, bool) {
	if i+1 >= len(s.tokens) || s.consumed[i+1] {
		return 0, nil, false
	}
	next := s.tokens[i+1]
	if s.isJoin(next) {
		if i+2 >= len(s.tokens) || s.consumed[i+2] {
			return 0, nil, false
		}
		if hi, ok := s.leadingMagnitude(s.tokens[i+2]); ok {
			return hi, []int{i + 1, i + 2}, true
		}
		return 0, nil, false
	}
	for _, j := range s.words.RangeJoins {
		if rest, found := strings.CutPrefix(next, j); found {
			if hi, ok := s.leadingMagnitude(rest); ok {
				return hi, []int{i + 1}, true
			}
		}
	}
	return 0, nil, false
}

// leadingMagnitude parses a number that starts tok, allowing a currency prefix ("¥500").
func (s *priceScan) leadingMagnitude(tok string) (float64, bool) {
	loc := numberRun.FindStringIndex(tok)
	if loc == nil || s.stripCurrency(tok[:loc[0]]) != "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok[loc[0]:loc[1]], 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// direction finds the price class for token i, checking the token itself,
// then the preceding tokens, then the following ones. Below beats above beats approx.
func (s *priceScan) direction(i int) (priceClass, []int) {
	classes := []struct {
		class priceClass
		words []string
	}{
		{classBelow, s.words.Below},
		{classAbove, s.words.Above},
		{classApprox, s.words.Approx},
	}
	for _, c := range classes {
		if containsAny(s.tokens[i], c.words) {
			return c.class, nil
		}
		if span := s.precedingPhrase(i, c.words); span != nil {
			return c.class, span
		}
		if span := s.followingPhrase(i, c.words); span != nil {
			return c.class, span
		}
	}
	return classNone, nil
}

func (s *priceScan) precedingPhrase(i int, words []string) []int {
	for n := 1; n <= lookbehind && i-n >= 0; n++ {
		if s.consumed[i-n] {
			return nil
		}
		window := strings.Join(s.tokens[i-n:i], " ")
		for _, w := range words {
			if strings.HasSuffix(window, w) {
				return indexRange(i-n, i)
			}
		}
	}
	return nil
}

func (s *priceScan) followingPhrase(i int, words []string) []int {
	for n := 1; n <= lookbehind && i+n < len(s.tokens); n++ {
		if s.consumed[i+n] {
			return nil
		}
		window := strings.Join(s.tokens[i+1:i+1+n], " ")
		for _, w := range words {
			if strings.HasPrefix(window, w) {
				return indexRange(i+1, i+1+n)
			}
		}
	}
	return nil
}

func (s *priceScan) setRange(lo, hi float64, idx ...int) {
	s.pr.Min, s.pr.Max = lo, hi
	s.bounded = true
	s.consume(idx...)
}

func (s *priceScan) consume(idx ...int) {
	for _, i := range idx {
		s.consumed[i] = true
	}
}

func (s *priceScan) isJoin(v string) bool {
	for _, j := range s.words.RangeJoins {
		if v == j {
			return true
		}
	}
	return false
}

// stripCurrency removes leading currency markers.
func (s *priceScan) stripCurrency(v string) string {
	for {
		trimmed := strings.TrimSpace(v)
		for _, c := range s.words.Currency {
			trimmed = strings.TrimPrefix(trimmed, c)
		}
		if trimmed == v {
			return v
		}
		v = trimmed
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func indexRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
