package objschema

// SealDeep returns a copy of node in which every plain object schema forbids
// unknown properties ("additionalProperties": false). An existing
// additionalProperties member is overwritten in place; otherwise the member is
// appended.
//
// Combinator branches (allOf, anyOf, oneOf, not) are independent schemas and
// keep their own additionalProperties settings; seal them separately when
// needed.
func SealDeep(node any) any { return Walk(node, seal) }

// SealObjectDeep is SealDeep for a schema known to be a record.
func SealObjectDeep(o *Object) *Object { return walkObject(o, "", seal) }

// UnsealDeep returns a copy of node in which no plain object schema carries an
// additionalProperties member. Combinator branches are left unchanged.
func UnsealDeep(node any) any { return Walk(node, unseal) }

// UnsealObjectDeep is UnsealDeep for a schema known to be a record.
func UnsealObjectDeep(o *Object) *Object { return walkObject(o, "", unseal) }

func seal(o *Object) *Object {
	return o.Set("additionalProperties", false)
}

func unseal(o *Object) *Object {
	o.Delete("additionalProperties")
	return o
}
