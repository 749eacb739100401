package catalog

import (
	"strings"

	"github.com/gamehub-store/gamehub/internal/rawg"
)

// canonicalSlugs maps known vendor slugs to their display keys. Slugs not in
// this table and not covered by a prefix rule pass through unchanged.
var canonicalSlugs = map[string]string{
	"nintendo-switch": "nintendo-switch",
	"pc":              "pc",
	"mac":             "mac",
	"linux":           "linux",
	"android":         "android",
	"ios":             "iOS",
	"macos":           "macOS",
	"nintendo-3ds":    "Nintendo 3DS",
	"nintendo-ds":     "Nintendo DS",
	"nintendo-dsi":    "Nintendo DSI",
	"wii":             "Wii",
	"wii-u":           "Wii U",
	"ps-vita":         "PS Vita",
	"psp":             "PSP",
	"dreamcast":       "Dreamcast",
	"gamecube":        "GameCube",
	"neogeo":          "Neo Geo",
	"macintosh":       "Macintosh",
}

// CanonicalPlatform collapses a vendor platform slug into its canonical key:
// console generations share one key (playstation4 and playstation5 are both
// "playstation"), known slugs map through the table, and unknown slugs are
// returned unchanged.
func CanonicalPlatform(slug string) string {
	if slug == "" {
		return ""
	}
	if strings.HasPrefix(slug, "playstation") {
		return "playstation"
	}
	if strings.HasPrefix(slug, "xbox") {
		return "xbox"
	}
	if key, ok := canonicalSlugs[slug]; ok {
		return key
	}
	return slug
}

// UniquePlatformKeys returns the canonical platform keys for a game's
// platform associations, deduplicated by canonical key with first-seen order
// preserved. Nil or empty input yields an empty slice.
func UniquePlatformKeys(platforms []rawg.PlatformRef) []string {
	keys := make([]string, 0, len(platforms))
	seen := make(map[string]struct{}, len(platforms))
	for _, p := range platforms {
		key := CanonicalPlatform(p.Platform.Slug)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
