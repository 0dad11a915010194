package atlas

import "errors"

// ErrNoEmbeddings is returned when an operation needs stored embeddings and
// the collection is empty.
var ErrNoEmbeddings = errors.New("no embeddings found")
