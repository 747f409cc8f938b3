package models

// SemanticQuery is a free-text query to encode into the shared embedding
// space. An empty query is valid and encodes to the zero vector.
type SemanticQuery struct {
	Query string `json:"query"`
}

// QueryEmbedding is the encoded form of a semantic query.
type QueryEmbedding struct {
	Query     string    `json:"query"`
	Embedding []float32 `json:"embedding"`
}
