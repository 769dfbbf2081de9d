package objschema

import "slices"

// JSON Schema combinators (https://json-schema.org/understanding-json-schema/reference/combining)
// and the keywords that introduce property definitions.
var (
	arrayCombinators   = [...]string{"allOf", "anyOf", "oneOf"}
	objectCombinators  = [...]string{"not"}
	propertiesKeywords = [...]string{"properties", "patternProperties"}
)

// IsArrayCombinator reports whether key is allOf, anyOf or oneOf.
func IsArrayCombinator(key string) bool { return slices.Contains(arrayCombinators[:], key) }

// IsObjectCombinator reports whether key is not.
func IsObjectCombinator(key string) bool { return slices.Contains(objectCombinators[:], key) }

// IsPropertiesKeyword reports whether key is properties or patternProperties,
// i.e. whether its members are named property schemas.
func IsPropertiesKeyword(key string) bool { return slices.Contains(propertiesKeywords[:], key) }
