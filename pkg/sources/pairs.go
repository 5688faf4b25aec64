package sources

import (
	"regexp"
	"slices"
	"strings"
)

// Side is the face of a card an image shows.
type Side string

// Card sides.
const (
	Front Side = "front"
	Back  Side = "back"
)

// imageName matches "<prefix>_front.<ext>" and "<prefix>_back.<ext>".
var imageName = regexp.MustCompile(`(?i)^(.+)_(front|back)\.[a-z0-9]+$`)

// ParseImageName splits a card image filename into its prefix and side.
// Form uploads are usually named "<timestamp>_<id>_front.png"; the prefix
// is everything before the side marker.
func ParseImageName(name string) (prefix string, side Side, ok bool) {
	m := imageName.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], Side(strings.ToLower(m[2])), true
}

// Pair groups the front and back images that share a prefix.
type Pair struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	Front  string `json:"front,omitempty" yaml:"front,omitempty"`
	Back   string `json:"back,omitempty" yaml:"back,omitempty"`
}

// Complete reports whether both sides are present.
func (p Pair) Complete() bool {
	return p.Front != "" && p.Back != ""
}

// MatchesID reports whether the pair belongs to the card id: the prefix
// is the id itself or ends with "_" followed by the id.
func (p Pair) MatchesID(id string) bool {
	if id == "" {
		return false
	}
	return p.Prefix == id || strings.HasSuffix(p.Prefix, "_"+id)
}

// Pairs groups filenames by prefix. Names that do not follow the
// convention are returned separately. Pairs are sorted by prefix. When a
// side appears twice under one prefix (front.jpg and front.png) the name
// sorting last wins.
func Pairs(names []string) (pairs []Pair, stray []string) {
	sorted := slices.Clone(names)
	slices.Sort(sorted)

	byPrefix := make(map[string]*Pair)
	for _, name := range sorted {
		prefix, side, ok := ParseImageName(name)
		if !ok {
			stray = append(stray, name)
			continue
		}
		p, found := byPrefix[prefix]
		if !found {
			p = &Pair{Prefix: prefix}
			byPrefix[prefix] = p
		}
		if side == Front {
			p.Front = name
		} else {
			p.Back = name
		}
	}

	pairs = make([]Pair, 0, len(byPrefix))
	for _, p := range byPrefix {
		pairs = append(pairs, *p)
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		return strings.Compare(a.Prefix, b.Prefix)
	})
	return pairs, stray
}
