package v1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

type IndexType string

const (
	IndexApt      IndexType = "apt"
	IndexPackages IndexType = "packages"
)

type Repository struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// MirrorSpec describes where the per-package packaging
// repositories live. Both fields may reference ${package}.
type MirrorSpec struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type IndexSpec struct {
	Type IndexType `json:"type,omitempty"`
	// Query is passed to the index search.
	Query string `json:"query,omitempty"`
	// Prefixes restricts search results to names with
	// one of the given prefixes.
	Prefixes []string `json:"prefixes,omitempty"`
	// Repositories is only used by the "packages" index and
	// accepts either "base release component" or a local file.
	Repositories []string `json:"repositories,omitempty"`
	Arch         string   `json:"arch,omitempty"`
}

type Options struct {
	NormalizeSonames     bool     `json:"normalizeSonames"`
	SequenceByDependency bool     `json:"sequenceByDependency"`
	IgnoreList           []string `json:"ignoreList,omitempty"`
	// IndexVersions prefers the candidate version reported by
	// the package index over one synthesized from the mirror.
	IndexVersions bool `json:"indexVersions"`
}

type ConfigSpec struct {
	Upstream       Repository `json:"upstream"`
	Mirror         MirrorSpec `json:"mirror"`
	DriverPrefixes []string   `json:"driverPrefixes,omitempty"`
	Index          IndexSpec  `json:"index"`
	Options        Options    `json:"options"`
}

type Config struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ConfigSpec `json:"spec"`
}

// Record is the resolved version of a single driver.
type Record struct {
	Driver  string `json:"driver"`
	Version string `json:"version"`
	GitHash string `json:"gitHash"`
}
