package writer

// File is one generated output file. Path is relative to the output root and
// uses forward slashes.
type File struct {
	Path    string
	Content string
}
