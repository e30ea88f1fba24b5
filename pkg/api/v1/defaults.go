package v1

const (
	DefaultUpstreamURL  = "https://github.com/indilib/indi-3rdparty.git"
	DefaultUpstreamPath = "${HOME}/indi-3rdparty"
	DefaultMirrorURL    = "https://salsa.debian.org/debian-astro-team/${package}.git"
	DefaultMirrorPath   = "${HOME}/${package}-repo"
	DefaultIndexQuery   = "indi-"
	DefaultArch         = "amd64"
)

// DefaultIgnoreList is the set of packages skipped by
// the variants that honour an ignore list.
var DefaultIgnoreList = []string{"libapogee", "libindi-dev", "some_other_package"}

// DefaultConfig returns the configuration shared by every
// variant before variant-specific options are applied.
func DefaultConfig() Config {
	return Config{
		Spec: ConfigSpec{
			Upstream: Repository{
				URL:  DefaultUpstreamURL,
				Path: DefaultUpstreamPath,
			},
			Mirror: MirrorSpec{
				URL:  DefaultMirrorURL,
				Path: DefaultMirrorPath,
			},
			DriverPrefixes: []string{"indi-"},
			Index: IndexSpec{
				Type:     IndexApt,
				Query:    DefaultIndexQuery,
				Prefixes: []string{"indi-", "lib"},
				Arch:     DefaultArch,
			},
		},
	}
}
