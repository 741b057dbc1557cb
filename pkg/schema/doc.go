// Package schema is a small structural type system for payloads, and the
// validator plugin that applies it in validate steps.
//
// Schemas map field names to types:
//
//	comment := schema.Schema{
//	    "text":     schema.String(),
//	    "rating":   schema.Optional(schema.Int()),
//	    "tags":     schema.Slice(schema.String()),
//	    "author":   schema.Object(schema.Schema{"id": schema.String()}),
//	}
//
// or are parsed from type strings, which is how declarative configuration
// spells them:
//
//	comment, err := schema.ParseTypeMap(map[string]string{
//	    "text":   "string",
//	    "rating": "int?",
//	    "tags":   "[string]",
//	})
//
// Numbers decoded from JSON arrive as float64; Int accepts them when they are
// whole.
package schema
