// Package deps models requirements.txt files, the dependency manifest
// format pip consumes (one requirement specifier per line).
//
// The model is deliberately not a resolver: it parses the subset of PEP 508
// a hand-maintained manifest uses (name, extras, version constraints,
// environment marker, trailing comment) and edits entries without
// disturbing anything else in the file.
//
// # Round-tripping
//
// A [Document] keeps every physical line, including comments, blank lines,
// pip options (-r, -e, --hash...) and URL requirements. Lines that were not
// touched by [Document.Add] or [Document.Remove] are written back
// byte-for-byte, so version control diffs show only the intended change:
//
//	doc, _ := deps.ParseFile("requirements.txt")
//	doc.Add(deps.Requirement{Name: "requests", Constraint: "==2.31.0"})
//	_ = doc.WriteFile("requirements.txt")
//
// # Name normalization
//
// Comparisons use PEP 503 normalized names ([Normalize]): "Django_REST.x"
// and "django-rest-x" refer to the same distribution.
package deps
