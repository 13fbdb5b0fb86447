package builder

import (
	"fmt"

	"github.com/relicdb/relicdb/pkg/fdb"
)

// Database is an owned, mutable table set. The zero value is not usable;
// call New.
type Database struct {
	tables []*Table
}

// New returns an empty database.
func New() *Database {
	return &Database{}
}

// AddTable appends a table with the given schema and a fixed bucket
// count. The bucket count cannot change later; callers needing a
// different load factor rebuild the table.
func (d *Database) AddTable(name string, columns []fdb.Column, bucketCount int) (*Table, error) {
	if bucketCount < 1 {
		return nil, fmt.Errorf("builder: table %q: bucket count %d, need at least 1", name, bucketCount)
	}
	for _, c := range columns {
		if !c.Kind.Valid() {
			return nil, fmt.Errorf("builder: table %q: column %q has invalid kind %d", name, c.Name, uint32(c.Kind))
		}
	}
	t := &Table{
		name:    name,
		columns: append([]fdb.Column(nil), columns...),
		buckets: make([][][]fdb.Value, bucketCount),
	}
	d.tables = append(d.tables, t)
	return t, nil
}

// Tables returns the tables in insertion order, which becomes file order.
func (d *Database) Tables() []*Table {
	return d.tables
}

// Table returns the first table with the given name, or nil.
func (d *Database) Table(name string) *Table {
	for _, t := range d.tables {
		if t.name == name {
			return t
		}
	}
	return nil
}

// FromView copies a decoded snapshot into an editable model. Bucket
// placement of existing rows is preserved verbatim, even where it differs
// from what Insert would compute, so re-encoding a file the client wrote
// keeps every row findable.
func FromView(db *fdb.Database) *Database {
	out := New()
	for _, vt := range db.Tables() {
		t := &Table{
			name:    vt.Name(),
			columns: append([]fdb.Column(nil), vt.Columns()...),
			buckets: make([][][]fdb.Value, vt.BucketCount()),
		}
		for b := range t.buckets {
			it := vt.Bucket(b)
			for it.Next() {
				t.buckets[b] = append(t.buckets[b], it.Row().Fields())
			}
		}
		out.tables = append(out.tables, t)
	}
	return out
}

// Table is one mutable table: a schema plus rows hanging off a fixed-size
// bucket array.
type Table struct {
	name    string
	columns []fdb.Column
	buckets [][][]fdb.Value
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Columns returns the schema. The slice is shared; callers must not
// modify it.
func (t *Table) Columns() []fdb.Column {
	return t.columns
}

// BucketCount returns the fixed number of buckets.
func (t *Table) BucketCount() int {
	return len(t.buckets)
}

// Insert validates values against the schema and appends a row to the
// tail of its key's bucket chain. Column 0 is the index column; its value
// decides the bucket.
func (t *Table) Insert(values ...fdb.Value) error {
	if err := t.checkRow(values); err != nil {
		return err
	}
	if len(t.buckets) == 0 {
		return fmt.Errorf("builder: table %q has no buckets", t.name)
	}
	b := 0
	if len(values) > 0 {
		b = fdb.BucketIndex(values[0], len(t.buckets))
	}
	t.buckets[b] = append(t.buckets[b], append([]fdb.Value(nil), values...))
	return nil
}

// Rows returns every row in canonical order (bucket order, then chain
// order). Row slices are shared with the table, so assigning to an
// element edits the row that Encode will write.
func (t *Table) Rows() [][]fdb.Value {
	var rows [][]fdb.Value
	for _, b := range t.buckets {
		rows = append(rows, b...)
	}
	return rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	n := 0
	for _, b := range t.buckets {
		n += len(b)
	}
	return n
}

func (t *Table) checkRow(values []fdb.Value) error {
	if len(values) != len(t.columns) {
		return &fdb.FormatError{
			Kind:   fdb.ErrSchemaMismatch,
			Table:  t.name,
			Detail: fmt.Sprintf("row has %d fields, schema has %d columns", len(values), len(t.columns)),
		}
	}
	for i, v := range values {
		if !v.IsNull() && v.Kind() != t.columns[i].Kind {
			return &fdb.FormatError{
				Kind:   fdb.ErrSchemaMismatch,
				Table:  t.name,
				Detail: fmt.Sprintf("field kind %s in column %q of kind %s", v.Kind(), t.columns[i].Name, t.columns[i].Kind),
			}
		}
	}
	return nil
}
