package onepay

import "github.com/nrednav/cuid2"

// IDLength is the length of every payment identifier.
const IDLength = 24

var generateID = mustInitGenerator()

func mustInitGenerator() func() string {
	generate, err := cuid2.Init(cuid2.WithLength(IDLength))
	if err != nil {
		panic(err)
	}
	return generate
}

// CreateID returns a new collision resistant payment identifier. Identifiers
// are public correlation tokens, so they are random rather than sequential.
func CreateID() string {
	return generateID()
}

// IsID reports whether id has the shape of an identifier from CreateID.
func IsID(id string) bool {
	return len(id) == IDLength && cuid2.IsCuid(id)
}
