package schema

import (
	"google.golang.org/protobuf/types/descriptorpb"
)

// Location is one SourceCodeInfo entry with its path relative to the scope
// of the Table that holds it.
type Location struct {
	Path            []int32
	LeadingComments string
}

// Table is a list of source locations relative to some node in the
// descriptor tree. An entry with an empty path describes that node itself.
type Table []Location

// NewTable copies the locations of a file's SourceCodeInfo. A nil info gives
// an empty table.
func NewTable(info *descriptorpb.SourceCodeInfo) Table {
	locs := info.GetLocation()
	t := make(Table, 0, len(locs))
	for _, loc := range locs {
		t = append(t, Location{
			Path:            loc.GetPath(),
			LeadingComments: loc.GetLeadingComments(),
		})
	}
	return t
}

// Narrow keeps the entries under (field, index) and strips that prefix from
// their paths. The receiver is not modified.
func (t Table) Narrow(field int32, index int) Table {
	var out Table
	for _, loc := range t {
		if len(loc.Path) >= 2 && loc.Path[0] == field && loc.Path[1] == int32(index) {
			out = append(out, Location{
				Path:            loc.Path[2:],
				LeadingComments: loc.LeadingComments,
			})
		}
	}
	return out
}

// Current returns the entry describing the table's own node, if any
func (t Table) Current() (Location, bool) {
	for _, loc := range t {
		if len(loc.Path) == 0 {
			return loc, true
		}
	}
	return Location{}, false
}

// LeadingComment returns the leading comment of the current node, or ""
func (t Table) LeadingComment() string {
	if loc, ok := t.Current(); ok {
		return loc.LeadingComments
	}
	return ""
}

// Context is a position during descent: a location table, the field and index
// of the child being visited within it, and the nesting depth used for
// indentation. Contexts are values; deriving one never changes another.
type Context struct {
	Table Table
	Field int32
	Index int
	Depth int
}

// Under returns a context for child 0 of field within t
func Under(t Table, field int32, depth int) Context {
	return Context{Table: t, Field: field, Index: 0, Depth: depth}
}

// Step returns a context for child index under the same field
func (c Context) Step(index int) Context {
	c.Index = index
	return c
}

// Scope narrows the table to the child this context points at
func (c Context) Scope() Table {
	return c.Table.Narrow(c.Field, c.Index)
}
