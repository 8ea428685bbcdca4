package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://github.com/vango-dev/introsite/blob/main/docs/errors.md#"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "introsite.json could not be read or parsed.",
		DocURL:   docBase + "e120",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "PORT must be an integer between 0 and 65535.",
		DocURL:   docBase + "e122",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E142": {
		Category: CategoryCLI,
		Message:  "Build failed",
		Detail:   "The production build could not be completed.",
		DocURL:   docBase + "e142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Invalid profile source",
		Detail:   "The profile source file is missing required fields or could not be parsed.",
		DocURL:   docBase + "e143",
	},
	"E150": {
		Category: CategoryCLI,
		Message:  "Publish failed",
		Detail:   "One or more build artifacts could not be uploaded.",
		DocURL:   docBase + "e150",
	},

	// ============================================
	// Render Errors (E200-E209)
	// ============================================

	"E201": {
		Category: CategoryRender,
		Message:  "Template not found",
		Detail:   "The production HTML template is missing from the build output.",
		DocURL:   docBase + "e201",
	},
	"E202": {
		Category: CategoryRender,
		Message:  "Render bundle not found",
		Detail:   "None of the candidate server bundle paths exist.",
		DocURL:   docBase + "e202",
	},
	"E203": {
		Category: CategoryRender,
		Message:  "No callable render export",
		Detail:   "The module exposes no render function as a named export, a default export property, or the default export itself.",
		DocURL:   docBase + "e203",
	},
	"E204": {
		Category: CategoryRender,
		Message:  "Render function failed",
		Detail:   "The render function returned an error or panicked.",
		DocURL:   docBase + "e204",
	},
	"E205": {
		Category: CategoryRender,
		Message:  "Invalid render bundle",
		Detail:   "The server bundle could not be decoded.",
		DocURL:   docBase + "e205",
	},

	// ============================================
	// Startup Errors (E210-E219)
	// ============================================

	"E210": {
		Category: CategoryStartup,
		Message:  "Port already in use",
		Detail:   "Another process is already listening on the configured port.",
		DocURL:   docBase + "e210",
	},
	"E211": {
		Category: CategoryStartup,
		Message:  "Server failed to start",
		Detail:   "The HTTP listener could not be created.",
		DocURL:   docBase + "e211",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
