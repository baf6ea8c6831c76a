package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod = "method"
	AttrPath   = "path"
	AttrStatus = "status"
	AttrCourt  = "court"
	AttrKind   = "kind"
	AttrReason = "reason"
)

// Reasons attached to dropped updates.
const (
	ReasonNoOwner     = "no_owner"
	ReasonResolveFail = "resolve_failed"
	ReasonInterpret   = "interpret_failed"
)
