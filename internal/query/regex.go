package query

import "github.com/dlclark/regexp2"

// Regex is the narrow surface the predicate engine needs from a compiled
// regular expression, so the engine itself never depends on a concrete
// regex package.
type Regex interface {
	MatchString(s string) bool
}

type regexp2Regex struct {
	re *regexp2.Regexp
}

func (r regexp2Regex) MatchString(s string) bool {
	ok, err := r.re.MatchString(s)
	return err == nil && ok
}

// compileRegex builds the engine's regex type from a pattern source string,
// using regexp2. Compile hands it the source of a `#match?` pattern that the
// grammar library has already compiled with the standard library's RE2
// engine, so a pattern needing regexp2-only syntax (backreferences,
// lookaround) is rejected before it gets here.
func compileRegex(pattern string) (Regex, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	return regexp2Regex{re: re}, nil
}
