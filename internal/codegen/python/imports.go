package python

import (
	"path"
	"regexp"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tracdap/tracgen/internal/codegen/writer"
)

var importProtoPattern = regexp.MustCompile(`^(` + reservedRoot + `/.+)/([^/]+)\.proto$`)

// importSet collects the import statements of one module, one per import key
type importSet struct {
	pkg    string
	target string
	seen   map[string]bool
	stmts  []string
}

func newImportSet(pkg, targetPackage string) *importSet {
	return &importSet{
		pkg:    pkg,
		target: targetPackage,
		seen:   make(map[string]bool),
	}
}

// addDependencies adds an import for each proto dependency under the reserved
// root. Siblings in the same package get a wildcard import unless
// skipSiblings is set; other packages get an aliased module import.
func (s *importSet) addDependencies(deps []string, skipSiblings bool) {
	for _, dep := range deps {
		match := importProtoPattern.FindStringSubmatch(dep)
		if match == nil {
			continue
		}

		importPackage := strings.ReplaceAll(match[1], "/", ".")
		importModule := match[2]

		if importPackage == s.pkg {
			key := "module:" + importModule
			if skipSiblings || s.seen[key] {
				continue
			}
			s.seen[key] = true
			s.stmts = append(s.stmts, "from ."+importModule+" import *  # noqa\n")
			continue
		}

		key := "package:" + importPackage
		if s.seen[key] {
			continue
		}
		s.seen[key] = true

		subPackage := strings.TrimPrefix(importPackage, reservedRoot+".")
		alias := importPackage[strings.LastIndex(importPackage, ".")+1:]
		s.stmts = append(s.stmts, "import "+s.target+"."+subPackage+" as "+alias+"\n")
	}
}

// fragment renders the import block followed by two blank lines, or nothing
func (s *importSet) fragment() *writer.Fragment {
	if len(s.stmts) == 0 {
		return writer.Text("imports", "")
	}
	return writer.Text("imports", strings.Join(s.stmts, "")+"\n\n")
}

// manifestImports renders the re-exports a package __init__ needs for one module
func manifestImports(file *descriptorpb.FileDescriptorProto) *writer.Fragment {
	module := moduleName(file.GetName())
	frag := writer.Join("exports:"+module, "")

	if len(file.GetEnumType()) == 0 && len(file.GetMessageType()) == 0 {
		return frag
	}

	frag.Add(writer.Text("", "\n"))
	for _, enum := range file.GetEnumType() {
		frag.Add(writer.Text(enum.GetName(), "from ."+module+" import "+enum.GetName()+"\n"))
	}
	for _, msg := range file.GetMessageType() {
		frag.Add(writer.Text(msg.GetName(), "from ."+module+" import "+msg.GetName()+"\n"))
	}

	return frag
}

// moduleName is the proto file stem: dir/object.proto -> object
func moduleName(protoFile string) string {
	base := path.Base(protoFile)
	return strings.TrimSuffix(base, path.Ext(base))
}
