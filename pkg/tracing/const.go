package tracing

// Span attribute keys used by this library
const (
	AttrKeyTreantErrorCode    = "treant.error.code"
	AttrKeyTreantDiscoverRoot = "treant.discover.root"
	AttrKeyTreantPath         = "treant.path"
	AttrKeyTreantId           = "treant.id"
)
