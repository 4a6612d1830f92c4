package errkit

// template defines a registered error type.
type template struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]template{
	// Runtime errors (E001-E099)
	"E001": {
		Category: CategoryRuntime,
		Message:  "hook called outside a render context",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "hook call order changed between renders",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "hook slot type mismatch",
	},

	// Fetch errors (E100-E199)
	"E101": {
		Category: CategoryFetch,
		Message:  "fetch failed",
	},

	// Config errors (E200-E299)
	"E201": {
		Category: CategoryConfig,
		Message:  "invalid configuration",
	},
}

// Sentinel instances for errors.Is matching.
var (
	ErrHookOutsideRender = New("E001")
	ErrHookOrder         = New("E002")
	ErrHookSlotType      = New("E003")
	ErrFetchFailed       = New("E101")
	ErrInvalidConfig     = New("E201")
)
