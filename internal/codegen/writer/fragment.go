package writer

import "strings"

// Fragment is a named piece of generated text. A fragment renders its own
// text followed by its children joined with Sep, so a file is assembled
// bottom-up from member, class and module fragments.
type Fragment struct {
	Name     string
	Text     string
	Sep      string
	Children []*Fragment
}

// Text returns a leaf fragment
func Text(name, text string) *Fragment {
	return &Fragment{Name: name, Text: text}
}

// Join returns a fragment that renders children separated by sep
func Join(name, sep string, children ...*Fragment) *Fragment {
	return &Fragment{Name: name, Sep: sep, Children: children}
}

// Add appends children and returns the fragment
func (f *Fragment) Add(children ...*Fragment) *Fragment {
	f.Children = append(f.Children, children...)
	return f
}

// String renders the fragment tree
func (f *Fragment) String() string {
	var sb strings.Builder
	f.render(&sb)
	return sb.String()
}

func (f *Fragment) render(sb *strings.Builder) {
	if f == nil {
		return
	}
	sb.WriteString(f.Text)
	for i, child := range f.Children {
		if i > 0 {
			sb.WriteString(f.Sep)
		}
		child.render(sb)
	}
}
