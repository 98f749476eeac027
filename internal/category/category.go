// Package category defines the nine statistic categories tracked by the game
// and the short codes used for them in scoreboard objective names.
package category

import "strings"

// Category identifies one statistic kind.
type Category int

const (
	Mined Category = iota
	Crafted
	Used
	Broken
	Dropped
	PickedUp
	Killed
	KilledBy
	Custom
)

// Namespace is the namespace every vanilla stat key is qualified with.
const Namespace = "minecraft"

// All lists every category in emission order.
var All = [...]Category{Mined, Crafted, Used, Broken, Dropped, PickedUp, Killed, KilledBy, Custom}

var names = [...]string{
	Mined:    "mined",
	Crafted:  "crafted",
	Used:     "used",
	Broken:   "broken",
	Dropped:  "dropped",
	PickedUp: "picked_up",
	Killed:   "killed",
	KilledBy: "killed_by",
	Custom:   "custom",
}

var codes = [...]string{
	Mined:    "m",
	Crafted:  "c",
	Used:     "u",
	Broken:   "b",
	Dropped:  "d",
	PickedUp: "p",
	Killed:   "k",
	KilledBy: "kb",
	Custom:   "z",
}

// byName is built once from names and never mutated.
var byName = func() map[string]Category {
	m := make(map[string]Category, len(names))
	for c, n := range names {
		m[n] = Category(c)
	}
	return m
}()

// Valid reports whether c is one of the nine known categories.
func (c Category) Valid() bool {
	return c >= Mined && c <= Custom
}

// Name returns the bare category name, e.g. "picked_up".
func (c Category) Name() string {
	if !c.Valid() {
		return ""
	}
	return names[c]
}

// Code returns the short code, e.g. "kb" for KilledBy.
func (c Category) Code() string {
	if !c.Valid() {
		return ""
	}
	return codes[c]
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return c.Name()
}

// Parse looks up a bare category name such as "mined".
func Parse(name string) (Category, bool) {
	c, ok := byName[name]
	return c, ok
}

// ParseQualified looks up a category in the vanilla namespace. Both the
// schema form "minecraft.mined" and the stat-file form "minecraft:mined" are
// accepted; bare names and other namespaces are not.
func ParseQualified(key string) (Category, bool) {
	rest, ok := strings.CutPrefix(key, Namespace)
	if !ok || rest == "" || (rest[0] != '.' && rest[0] != ':') {
		return 0, false
	}
	return Parse(rest[1:])
}

// Shorten returns the short code for a qualified category string, or the
// string itself when the category is unknown.
func Shorten(key string) string {
	if c, ok := ParseQualified(key); ok {
		return c.Code()
	}
	return key
}
