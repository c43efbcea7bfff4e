// Package errors provides structured, coded errors for the mvvm tooling.
//
// Errors carry a registered code, a category, an optional document
// location and a hint. Codes are grouped by range:
//   - E1xx: configuration (mvvm.json)
//   - E2xx: model documents
//   - E3xx: scenarios and their expectations
//
// # Usage
//
//	err := errors.New("E202").
//	    WithLocation("models/player.yaml", 4, 3).
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E202: Invalid model document
//	//
//	//   models/player.yaml:4:3
//	//
//	//        2 │ player:
//	//        3 │   name: ada
//	//   →    4 │   hp: [1, 2
//	//          │   ^
//	//
//	//   Hint: Model documents are plain YAML: mappings, sequences and scalars.
//
// Two errors with the same code match under errors.Is.
package errors
