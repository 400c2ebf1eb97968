package evaluator

import (
	"sort"

	"github.com/funvibe/jsmm/internal/config"
)

// CommandFilter restricts which command tags a program may use.
// A nil filter allows everything. Deny entries override allow entries.
type CommandFilter struct {
	allowAll bool
	allowed  map[string]bool
	denied   map[string]bool
}

// NewCommandFilter builds a filter. An empty allow list allows every tag
// that is not denied. The entry "jsmm" stands for all language tags.
func NewCommandFilter(allow, deny []string) *CommandFilter {
	f := &CommandFilter{
		allowAll: len(allow) == 0,
		allowed:  make(map[string]bool),
		denied:   make(map[string]bool),
	}
	for _, tag := range expandTags(allow) {
		f.allowed[tag] = true
	}
	for _, tag := range expandTags(deny) {
		f.denied[tag] = true
	}
	return f
}

func expandTags(entries []string) []string {
	var tags []string
	for _, e := range entries {
		if e == config.LanguageGroup {
			tags = append(tags, config.LanguageTags...)
		} else {
			tags = append(tags, e)
		}
	}
	return tags
}

// Allows reports whether tag may be used.
func (f *CommandFilter) Allows(tag string) bool {
	if f == nil {
		return true
	}
	if f.denied[tag] {
		return false
	}
	return f.allowAll || f.allowed[tag]
}

// Allowed returns the explicitly allowed tags that are not denied, sorted.
func (f *CommandFilter) Allowed() []string {
	if f == nil {
		return nil
	}
	var tags []string
	for tag := range f.allowed {
		if !f.denied[tag] {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
