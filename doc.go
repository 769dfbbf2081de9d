package objschema

// Package objschema provides:
//
// - Shallow transforms of object JSON Schemas: MergeProps, PickProps, OmitProps,
//   RequireProps/RequireAllProps, OptionalProps/OptionalAllProps
// - Combinator-aware deep transforms: SealDeep (additionalProperties: false on
//   every plain object schema) and UnsealDeep (the inverse), built on Walk
// - Pipe for chaining transforms
// - Order-preserving JSON and YAML decoding/encoding of schema trees via Object
//
// Design policy:
// - Every transform returns a new tree; inputs are never modified and outputs
//   share no mutable state with them.
// - Shallow transforms fail with Issues (code not_object_schema) when the
//   schema type is not "object". Deep transforms never fail.
// - Subschemas of allOf, anyOf, oneOf and not are independent schemas and are
//   never rewritten by deep transforms, unless those words are property names
//   under properties/patternProperties.
// - Put the token plumbing under internal/, the JSON driver under source/,
//   typed schemas under jsonschema/, CRD helpers under crd/ and the CLI under
//   cmd/objschema.
//
// Typical usage:
//
//  base, err := objschema.ParseJSONObject(data)
//  out, err := objschema.Pipe(base,
//      objschema.Merge(extra),
//      objschema.Omit("internal"),
//      objschema.Require("id"),
//      objschema.Seal(),
//  )
//  b, err := objschema.EncodeJSONIndent(out, "", "  ")
