package errors

// Registered error codes.
const (
	CodeRouteNotFound     = "R001"
	CodeInvalidRouteFile  = "R002"
	CodeDescriptorParse   = "P001"
	CodeModuleNotFound    = "P002"
	CodeModuleLoad        = "P003"
	CodeMountFailed       = "P004"
	CodeInvalidConfig     = "C001"
	CodeMissingConfig     = "C002"
	CodeInvalidConfigAddr = "C003"
	CodeAPIRequest        = "A001"
	CodeAPIStatus         = "A002"
	CodeUnknownTemplate   = "T001"
	CodeProjectExists     = "T002"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Routing
	CodeRouteNotFound: {
		Category: CategoryRouting,
		Message:  "Route not found",
	},
	CodeInvalidRouteFile: {
		Category: CategoryRouting,
		Message:  "Invalid route file",
	},

	// Page resolution
	CodeDescriptorParse: {
		Category: CategoryPage,
		Message:  "Page descriptor could not be parsed",
	},
	CodeModuleNotFound: {
		Category: CategoryPage,
		Message:  "Page module not found",
	},
	CodeModuleLoad: {
		Category: CategoryPage,
		Message:  "Page module failed to load",
	},
	CodeMountFailed: {
		Category: CategoryPage,
		Message:  "Page failed to mount",
	},

	// Configuration
	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid pagekit.json",
	},
	CodeMissingConfig: {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
	},
	CodeInvalidConfigAddr: {
		Category: CategoryConfig,
		Message:  "Invalid listen address",
	},

	// API client
	CodeAPIRequest: {
		Category: CategoryAPI,
		Message:  "API request failed",
	},
	CodeAPIStatus: {
		Category: CategoryAPI,
		Message:  "API returned an error status",
	},

	// Scaffolding
	CodeUnknownTemplate: {
		Category: CategoryCLI,
		Message:  "Unknown project template",
	},
	CodeProjectExists: {
		Category: CategoryCLI,
		Message:  "Project already exists",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
