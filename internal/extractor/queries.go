package extractor

// Queries drive the query-based extractors. Capture names carry the construct
// taxonomy: def.function / def.class become symbol nodes with defines edges,
// import.module / import.path become imports edges, call.name becomes a calls
// edge keeping only the final accessed name of member-style calls.
var Queries = map[string]string{
	"python": `
		(import_statement name: (dotted_name) @import.module)
		(import_statement name: (aliased_import name: (dotted_name) @import.module))
		(import_from_statement module_name: (dotted_name) @import.module)
		(import_from_statement module_name: (relative_import) @import.module)
		(function_definition name: (identifier) @def.function)
		(class_definition name: (identifier) @def.class)
		(call function: (identifier) @call.name)
		(call function: (attribute attribute: (identifier) @call.name))
	`,
	"go": `
		(import_spec path: (interpreted_string_literal) @import.path)
		(function_declaration name: (identifier) @def.function)
		(method_declaration name: (field_identifier) @def.function)
		(type_declaration (type_spec name: (type_identifier) @def.class))
		(call_expression function: (identifier) @call.name)
		(call_expression function: (selector_expression field: (field_identifier) @call.name))
	`,
}
