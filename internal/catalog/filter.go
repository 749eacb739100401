package catalog

// deniedTagSlugs is the content-classification denylist. Matching is exact
// and case-sensitive against the tag slug.
var deniedTagSlugs = map[string]struct{}{
	"nsfw":   {},
	"hentai": {},
	"erotic": {},
}

// Presentable returns the subset of entries fit for the storefront, in input
// order. An entry is dropped when it carries a denylisted tag, or when it has
// neither achievements nor tags (a signal of placeholder or spam listings).
func Presentable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if presentable(e) {
			out = append(out, e)
		}
	}
	return out
}

func presentable(e Entry) bool {
	if e.AchievementsCount == 0 && len(e.Tags) == 0 {
		return false
	}
	for _, tag := range e.Tags {
		if _, denied := deniedTagSlugs[tag.Slug]; denied {
			return false
		}
	}
	return true
}
