package debian

// Package is a single stanza of a Packages index. Only the
// fields needed to resolve versions and dependencies are decoded.
type Package struct {
	Package string
	Version string
	Depends []string `delim:", "`
}

type Index struct {
	packages []Package
	source   string
}

// Relation is a single entry of a relationship field such as
// "Depends". Names holds every alternative.
type Relation struct {
	Names []string
}
