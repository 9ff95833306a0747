package service

import (
	"fmt"

	"github.com/PranavGopinath/spectra/internal/taste"
)

// QueryKind tags which variant a Query holds.
type QueryKind int

const (
	// QueryText is free text to be embedded before searching.
	QueryText QueryKind = iota
	// QueryEmbedding is a raw vector in the semantic embedding space.
	QueryEmbedding
	// QueryTaste is a raw vector in the taste space.
	QueryTaste
)

// Query is a tagged recommendation query variant. The variant is decided
// once, at the boundary, by the constructors below; downstream code
// dispatches on the tag rather than re-sniffing vector lengths.
type Query struct {
	kind   QueryKind
	text   string
	vector []float32
}

// Kind returns the query's variant tag.
func (q Query) Kind() QueryKind {
	return q.kind
}

// Text returns the query text; only meaningful for QueryText.
func (q Query) Text() string {
	return q.text
}

// Vector returns the query vector; only meaningful for the vector variants.
func (q Query) Vector() []float32 {
	return q.vector
}

// TextQuery builds a free-text query.
func TextQuery(text string) Query {
	return Query{kind: QueryText, text: text}
}

// EmbeddingQuery builds an embedding-space query. Fails with ValidationError
// if the vector is not embedding-sized.
func EmbeddingQuery(vector []float32) (Query, error) {
	if len(vector) != taste.EmbeddingDim {
		return Query{}, &ValidationError{
			Msg: fmt.Sprintf("embedding query must have length %d, got %d", taste.EmbeddingDim, len(vector)),
		}
	}
	return Query{kind: QueryEmbedding, vector: vector}, nil
}

// TasteQuery builds a taste-space query. Fails with ValidationError if the
// vector is not taste-sized.
func TasteQuery(vector []float32) (Query, error) {
	if len(vector) != taste.NumDimensions {
		return Query{}, &ValidationError{
			Msg: fmt.Sprintf("taste query must have length %d, got %d", taste.NumDimensions, len(vector)),
		}
	}
	return Query{kind: QueryTaste, vector: vector}, nil
}

// VectorQuery infers the space of a raw numeric query by its length:
// exactly EmbeddingDim means embedding space, exactly NumDimensions means
// taste space. Any other length is a caller error. This inference happens
// once here, at the boundary; the result carries an explicit tag.
func VectorQuery(vector []float32) (Query, error) {
	switch len(vector) {
	case taste.EmbeddingDim:
		return Query{kind: QueryEmbedding, vector: vector}, nil
	case taste.NumDimensions:
		return Query{kind: QueryTaste, vector: vector}, nil
	default:
		return Query{}, &ValidationError{
			Msg: fmt.Sprintf("query vector must have length %d (embedding space) or %d (taste space), got %d",
				taste.EmbeddingDim, taste.NumDimensions, len(vector)),
		}
	}
}
