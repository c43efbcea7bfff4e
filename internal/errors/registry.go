package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Config errors (E100-E199)

	"E101": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "mvvm.json could not be parsed.",
		Suggestion: "Check the file for trailing commas and unquoted keys.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Configuration could not be written",
	},
	"E104": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create mvvm.json or pass --config",
	},

	// Model errors (E200-E299)

	"E201": {
		Category: CategoryModel,
		Message:  "Model file could not be read",
	},
	"E202": {
		Category:   CategoryModel,
		Message:    "Invalid model document",
		Suggestion: "Model documents are plain YAML: mappings, sequences and scalars.",
	},
	"E203": {
		Category:   CategoryModel,
		Message:    "Unsupported model node",
		Suggestion: "Use !!set for sets and !map for keyed collections with non-string keys.",
	},
	"E204": {
		Category: CategoryModel,
		Message:  "Duplicate key",
		Detail:   "A mapping declares the same key twice.",
	},
	"E205": {
		Category: CategoryModel,
		Message:  "Model could not be encoded",
	},

	// Scenario errors (E300-E399)

	"E301": {
		Category: CategoryScenario,
		Message:  "Expectation failed",
		Detail:   "The reactions that ran differ from the ones the step expects.",
	},
	"E302": {
		Category: CategoryScenario,
		Message:  "Invalid scenario",
	},
	"E303": {
		Category:   CategoryScenario,
		Message:    "Unknown step operation",
		Suggestion: "Supported operations: set, delete, add, clear, push, pop, shift, unshift, splice, stop.",
	},
	"E304": {
		Category: CategoryScenario,
		Message:  "Path does not resolve",
		Detail:   "The step path does not lead to a container of the expected kind.",
	},
	"E305": {
		Category: CategoryScenario,
		Message:  "Unknown reaction",
	},
	"E306": {
		Category: CategoryScenario,
		Message:  "Scenario file could not be read",
	},
	"E307": {
		Category: CategoryScenario,
		Message:  "Reaction panicked",
	},
}

// Codes returns all registered error codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template Template) {
	registry[code] = template
}
