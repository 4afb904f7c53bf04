// Package extract turns free text into schema-conforming JSON with one model
// call.
//
// A call runs four stages: the prompt is built from the schema and the
// query, the model is asked once, the first balanced JSON object is cut out
// of the reply, and the object is validated against the schema.
//
//	ex, err := extract.New(client, extract.Config{})
//	person := schema.New("PersonInfo",
//	    schema.String("name"),
//	    schema.Integer("age"),
//	    schema.String("city"),
//	    schema.String("occupation").AsOptional(),
//	)
//	res, err := ex.Extract(ctx, "John is 30 and lives in NYC", person)
//	// res.Value["age"] == 30.0
//
// Into derives the schema from a Go type and decodes into it:
//
//	info, err := extract.Into[PersonInfo](ctx, ex, "John is 30 and lives in NYC")
//
// Every failure is an *Error naming the stage, and matches one sentinel of
// the taxonomy with errors.Is: ErrInvalidInput, ErrNoJSONFound,
// ErrUnbalancedBraces, ErrMalformedJSON, ErrSchemaValidation or
// ErrTransport. Nothing is retried.
package extract
