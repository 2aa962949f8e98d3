package field

import "strings"

// Rule tells how the value half of a line is parsed and rendered.
type Rule int

const (
	RuleRecordStart Rule = iota
	RuleScalar
	RuleSpaceList
	RuleCommaList
)

// Attribute names. They are the slot names records are addressed by.
const (
	AttrName      = "name"
	AttrCover     = "cover"
	AttrEngine    = "engine"
	AttrSetup     = "setup"
	AttrRuntime   = "runtime"
	AttrStore     = "store"
	AttrHints     = "hints"
	AttrGenres    = "genres"
	AttrTags      = "tags"
	AttrYear      = "year"
	AttrDeveloper = "developer"
	AttrPublisher = "publisher"
	AttrVersion   = "version"
	AttrStatus    = "status"
)

// RecordStartKey opens a new record; its value is the record name.
const RecordStartKey = "Game"

// Spec binds a database key to its parse/render rule and record slot.
type Spec struct {
	Key     string
	Attr    string
	Rule    Rule
	Aliases []string
}

// Repeated reports whether the key carries a list of values.
func (s Spec) Repeated() bool {
	return s.Rule == RuleSpaceList || s.Rule == RuleCommaList
}

// separator returns the delimiter used to split and join list values.
func (s Spec) separator() (split, join string) {
	switch s.Rule {
	case RuleSpaceList:
		return " ", " "
	case RuleCommaList:
		return ",", ", "
	default:
		return "", ""
	}
}

// schema lists keys in the order records are rendered.
var schema = []Spec{
	{Key: RecordStartKey, Attr: AttrName, Rule: RuleRecordStart},
	{Key: "Cover", Attr: AttrCover, Rule: RuleScalar},
	{Key: "Engine", Attr: AttrEngine, Rule: RuleScalar},
	{Key: "Setup", Attr: AttrSetup, Rule: RuleScalar},
	{Key: "Runtime", Attr: AttrRuntime, Rule: RuleScalar},
	{Key: "Store", Attr: AttrStore, Rule: RuleSpaceList, Aliases: []string{"stores"}},
	{Key: "Hints", Attr: AttrHints, Rule: RuleScalar},
	{Key: "Genre", Attr: AttrGenres, Rule: RuleCommaList},
	{Key: "Tags", Attr: AttrTags, Rule: RuleCommaList, Aliases: []string{"tag"}},
	{Key: "Year", Attr: AttrYear, Rule: RuleScalar},
	{Key: "Dev", Attr: AttrDeveloper, Rule: RuleScalar},
	{Key: "Pub", Attr: AttrPublisher, Rule: RuleScalar},
	{Key: "Version", Attr: AttrVersion, Rule: RuleScalar},
	{Key: "Status", Attr: AttrStatus, Rule: RuleScalar},
}

var byKey = func() map[string]Spec {
	m := make(map[string]Spec, len(schema))
	for _, s := range schema {
		m[s.Key] = s
	}
	return m
}()

// Lookup returns the spec for a database key. Keys are case-sensitive.
func Lookup(key string) (Spec, bool) {
	s, ok := byKey[key]
	return s, ok
}

// Resolve finds a spec by attribute name, database key or alias, ignoring
// case. "dev", "Developer" and "DEV" all resolve to the developer slot.
func Resolve(name string) (Spec, bool) {
	for _, s := range schema {
		if strings.EqualFold(name, s.Attr) || strings.EqualFold(name, s.Key) {
			return s, true
		}
		for _, alias := range s.Aliases {
			if strings.EqualFold(name, alias) {
				return s, true
			}
		}
	}
	return Spec{}, false
}

// Schema returns a copy of every known spec in render order.
func Schema() []Spec {
	out := make([]Spec, len(schema))
	copy(out, schema)
	return out
}
