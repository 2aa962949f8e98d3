// Package export writes a loaded catalog out as JSON, as the canonical flat
// database format, or into PostgreSQL.
package export

import (
	"bufio"
	"encoding/json"
	"io"
	"iter"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/collection"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/field"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/record"
)

// Document is the JSON shape of a collection.
type Document[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

// WriteJSON encodes c as a Document, indented when pretty is set.
func WriteJSON[T collection.Entry](w io.Writer, c *collection.Collection[T], pretty bool) error {
	items := c.Items()
	if items == nil {
		items = []T{}
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(Document[T]{Count: c.Count(), Items: items})
}

// WriteFlat renders games back into the database format, one line per
// attribute in schema order. Attributes without a value are written as the
// bare key.
func WriteFlat(w io.Writer, games iter.Seq[*record.Game]) error {
	bw := bufio.NewWriter(w)
	for g := range games {
		for _, f := range g.Fields() {
			bw.WriteString(strings.TrimSuffix(field.Render(f), "\t"))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
