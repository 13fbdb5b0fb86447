package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicdb/relicdb/pkg/builder"
	"github.com/relicdb/relicdb/pkg/fdb"
)

func TestAddTable_Validation(t *testing.T) {
	b := builder.New()

	_, err := b.AddTable("NoBuckets", nil, 0)
	assert.Error(t, err)

	_, err = b.AddTable("BadKind", []fdb.Column{{Name: "x", Kind: fdb.ValueType(7)}}, 1)
	assert.Error(t, err)

	tbl, err := b.AddTable("Ok", []fdb.Column{{Name: "id", Kind: fdb.TypeInt32}}, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, tbl.BucketCount())
	assert.Same(t, tbl, b.Table("Ok"))
	assert.Nil(t, b.Table("Missing"))
}

func TestInsert_SchemaValidation(t *testing.T) {
	b := builder.New()
	tbl, err := b.AddTable("Npc", []fdb.Column{
		{Name: "id", Kind: fdb.TypeInt32},
		{Name: "name", Kind: fdb.TypeText},
	}, 4)
	require.NoError(t, err)

	// Wrong arity.
	err = tbl.Insert(fdb.Int32(1))
	assert.ErrorIs(t, err, fdb.ErrSchemaMismatch)

	// Wrong kind at a position.
	err = tbl.Insert(fdb.Int32(1), fdb.VarChar("x"))
	assert.ErrorIs(t, err, fdb.ErrSchemaMismatch)

	// NULL is allowed in any column.
	require.NoError(t, tbl.Insert(fdb.Int32(1), fdb.Null()))
	require.NoError(t, tbl.Insert(fdb.Null(), fdb.Text("vendor")))
	assert.Equal(t, 2, tbl.Len())
}

func TestInsert_ChainsDuplicateKeys(t *testing.T) {
	b := builder.New()
	tbl, err := b.AddTable("Loot", []fdb.Column{
		{Name: "id", Kind: fdb.TypeInt32},
		{Name: "item", Kind: fdb.TypeText},
	}, 4)
	require.NoError(t, err)

	require.NoError(t, tbl.Insert(fdb.Int32(9), fdb.Text("gem")))
	require.NoError(t, tbl.Insert(fdb.Int32(9), fdb.Text("coin")))
	assert.Equal(t, 2, tbl.Len())

	rows := tbl.Rows()
	require.Len(t, rows, 2)
	// Tail insertion keeps chain order.
	first, _ := rows[0][1].AsText()
	second, _ := rows[1][1].AsText()
	assert.Equal(t, "gem", first)
	assert.Equal(t, "coin", second)
}

func TestRows_SharedForEditing(t *testing.T) {
	b := builder.New()
	tbl, err := b.AddTable("Items", []fdb.Column{
		{Name: "id", Kind: fdb.TypeInt32},
		{Name: "active", Kind: fdb.TypeBool},
	}, 2)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(fdb.Int32(4), fdb.Bool(true)))

	tbl.Rows()[0][1] = fdb.Bool(false)

	buf, err := b.Encode()
	require.NoError(t, err)
	db, err := fdb.Decode(buf)
	require.NoError(t, err)

	rows := db.Table("Items").Find(0, fdb.Int32(4))
	require.Len(t, rows, 1)
	on, _ := rows[0].Field(1).AsBool()
	assert.False(t, on)
}
