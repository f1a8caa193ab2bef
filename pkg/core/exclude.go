package core

import "regexp"

// controlDirectoryPattern matches the reserved client-side control directory
// so that it is always excluded from synchronization, regardless of any
// user-supplied exclude rules.
const controlDirectoryPattern = `\.bbup/`

// ExcludeList is an ordered set of regular expressions matched against
// slash-separated relative paths (with a trailing slash for directories) to
// decide whether an object should be left out of a snapshot or delta (§3.5).
type ExcludeList struct {
	rules []*regexp.Regexp
}

// NewExcludeList builds an ExcludeList seeded with the built-in control
// directory rule, plus the given additional rules.
func NewExcludeList(rules []string) (*ExcludeList, error) {
	base := &ExcludeList{rules: []*regexp.Regexp{regexp.MustCompile(controlDirectoryPattern)}}
	return base.Join(rules)
}

// Join returns a new ExcludeList combining the receiver's rules with the
// given additional rules.
func (e *ExcludeList) Join(rules []string) (*ExcludeList, error) {
	result := &ExcludeList{rules: append([]*regexp.Regexp{}, e.rules...)}
	for _, rule := range rules {
		compiled, err := regexp.Compile(rule)
		if err != nil {
			return nil, &UnparsableRuleError{Rule: rule, Cause: err}
		}
		result.rules = append(result.rules, compiled)
	}
	return result, nil
}

// ShouldExclude reports whether the given relative path should be excluded.
// Directories are matched with a trailing slash, so a rule can target
// directories specifically (e.g. "build/").
func (e *ExcludeList) ShouldExclude(path AbstPath, isDir bool) bool {
	candidate := path.String()
	if isDir {
		candidate += "/"
	}
	for _, rule := range e.rules {
		if rule.MatchString(candidate) {
			return true
		}
	}
	return false
}
