package taste

import (
	"encoding/json"
	"fmt"
	"os"
)

// unit-norm tolerance for basis directions; directions are generated in
// float64 and stored as float32, so the norm can drift by roughly 1e-6
const normTolerance = 1e-5

// BasisEntry is one named direction in embedding space.
type BasisEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Direction []float32 `json:"direction"`
}

// Basis is the fixed set of unit direction vectors defining the taste-space
// axes. It is created offline, loaded read-only at process start, and is
// immutable afterwards, so it is safe for unlimited concurrent readers.
type Basis struct {
	entries []BasisEntry
	dim     int
}

// NewBasis validates a set of basis entries and wraps them in an immutable
// Basis. All directions must share one length and have unit norm within
// tolerance. The entry count and direction length are taken from the input,
// so reduced bases can be built for tests; production loading via LoadBasis
// additionally pins the shape to NumDimensions x EmbeddingDim.
func NewBasis(entries []BasisEntry) (*Basis, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("basis has no entries")
	}

	dim := len(entries[0].Direction)
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("basis entry %d has no name", i)
		}
		if len(e.Direction) != dim {
			return nil, fmt.Errorf("basis entry %q: direction length %d, expected %d",
				e.Name, len(e.Direction), dim)
		}
		norm := Norm(e.Direction)
		if norm < 1-normTolerance || norm > 1+normTolerance {
			return nil, fmt.Errorf("basis entry %q: direction norm %.8f, expected 1", e.Name, norm)
		}
	}

	// Copy so callers cannot mutate the basis after construction.
	copied := make([]BasisEntry, len(entries))
	for i, e := range entries {
		dir := make([]float32, len(e.Direction))
		copy(dir, e.Direction)
		copied[i] = BasisEntry{ID: e.ID, Name: e.Name, Direction: dir}
	}

	return &Basis{entries: copied, dim: dim}, nil
}

// LoadBasis reads and validates the production dimension basis from a JSON
// file. A malformed basis is a fatal startup condition for callers; it is
// never retried here.
func LoadBasis(path string) (*Basis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read basis file %s: %w", path, err)
	}

	var entries []BasisEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse basis file %s: %w", path, err)
	}

	basis, err := NewBasis(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid basis file %s: %w", path, err)
	}
	if basis.Len() != NumDimensions {
		return nil, fmt.Errorf("basis file %s: %d dimensions, expected %d", path, basis.Len(), NumDimensions)
	}
	if basis.Dim() != EmbeddingDim {
		return nil, fmt.Errorf("basis file %s: direction length %d, expected %d", path, basis.Dim(), EmbeddingDim)
	}
	return basis, nil
}

// Len returns the number of taste dimensions in the basis.
func (b *Basis) Len() int {
	return len(b.entries)
}

// Dim returns the embedding-space dimensionality of the basis directions.
func (b *Basis) Dim() int {
	return b.dim
}

// Entry returns the basis entry at index i.
func (b *Basis) Entry(i int) BasisEntry {
	return b.entries[i]
}

// Names returns the dimension names in basis order.
func (b *Basis) Names() []string {
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.Name
	}
	return names
}
