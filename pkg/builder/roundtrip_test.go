package builder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicdb/relicdb/pkg/builder"
	"github.com/relicdb/relicdb/pkg/fdb"
)

// requireEqualDatabase checks semantic equality between a builder model
// and a decoded view: table names, schemas, bucket counts and every row
// in canonical order.
func requireEqualDatabase(t *testing.T, want *builder.Database, got *fdb.Database) {
	t.Helper()
	require.Len(t, got.Tables(), len(want.Tables()))
	for i, wt := range want.Tables() {
		gt := got.Tables()[i]
		assert.Equal(t, wt.Name(), gt.Name())
		assert.Equal(t, wt.Columns(), gt.Columns())
		assert.Equal(t, wt.BucketCount(), gt.BucketCount())

		wantRows := wt.Rows()
		var gotRows [][]fdb.Value
		for it := gt.Rows(); it.Next(); {
			gotRows = append(gotRows, it.Row().Fields())
		}
		require.Len(t, gotRows, len(wantRows), "table %s", wt.Name())
		for j := range wantRows {
			require.Len(t, gotRows[j], len(wantRows[j]))
			for k := range wantRows[j] {
				assert.True(t, wantRows[j][k].Equal(gotRows[j][k]),
					"table %s row %d field %d: want %s, got %s",
					wt.Name(), j, k, wantRows[j][k], gotRows[j][k])
			}
		}
	}
}

func buildMixed(t *testing.T) *builder.Database {
	t.Helper()
	b := builder.New()

	items, err := b.AddTable("Items", []fdb.Column{
		{Name: "id", Kind: fdb.TypeInt32},
		{Name: "name", Kind: fdb.TypeText},
		{Name: "weight", Kind: fdb.TypeFloat32},
		{Name: "flags", Kind: fdb.TypeInt64},
		{Name: "notes", Kind: fdb.TypeVarChar},
		{Name: "tradeable", Kind: fdb.TypeBool},
	}, 4)
	require.NoError(t, err)
	require.NoError(t, items.Insert(
		fdb.Int32(1), fdb.Text("torch"), fdb.Float32(0.5),
		fdb.Int64(math.MaxInt64), fdb.VarChar("lights caves"), fdb.Bool(true)))
	require.NoError(t, items.Insert(
		fdb.Int32(2), fdb.Text("aníma stone"), fdb.Float32(float32(math.Inf(1))),
		fdb.Int64(math.MinInt64), fdb.Null(), fdb.Bool(false)))
	require.NoError(t, items.Insert(
		fdb.Int32(6), fdb.Null(), fdb.Null(),
		fdb.Int64(0), fdb.VarChar(""), fdb.Null()))

	_, err = b.AddTable("Empty", []fdb.Column{{Name: "id", Kind: fdb.TypeInt32}}, 2)
	require.NoError(t, err)

	zones, err := b.AddTable("ZoneTable", []fdb.Column{
		{Name: "zone", Kind: fdb.TypeText},
		{Name: "level", Kind: fdb.TypeInt32},
	}, 1)
	require.NoError(t, err)
	require.NoError(t, zones.Insert(fdb.Text("harbor"), fdb.Int32(3)))
	require.NoError(t, zones.Insert(fdb.Text("caldera"), fdb.Int32(14)))

	return b
}

func TestEncode_RoundTrip(t *testing.T) {
	b := buildMixed(t)
	buf, err := b.Encode()
	require.NoError(t, err)

	db, err := fdb.Decode(buf)
	require.NoError(t, err)
	requireEqualDatabase(t, b, db)
}

func TestEncode_RoundTripTwice(t *testing.T) {
	b := buildMixed(t)
	buf, err := b.Encode()
	require.NoError(t, err)
	db, err := fdb.Decode(buf)
	require.NoError(t, err)

	again := builder.FromView(db)
	buf2, err := again.Encode()
	require.NoError(t, err)
	db2, err := fdb.Decode(buf2)
	require.NoError(t, err)

	requireEqualDatabase(t, b, db2)
	// The layout is deterministic, so a re-encode of an unchanged model
	// is byte-identical even though only semantic equality is promised.
	assert.Equal(t, buf, buf2)
}

func TestFromView_PreservesBucketPlacement(t *testing.T) {
	b := buildMixed(t)
	buf, err := b.Encode()
	require.NoError(t, err)
	db, err := fdb.Decode(buf)
	require.NoError(t, err)

	copied := builder.FromView(db)
	buf2, err := copied.Encode()
	require.NoError(t, err)
	db2, err := fdb.Decode(buf2)
	require.NoError(t, err)

	for i, tbl := range db.Tables() {
		tbl2 := db2.Tables()[i]
		require.Equal(t, tbl.BucketCount(), tbl2.BucketCount())
		for bkt := 0; bkt < tbl.BucketCount(); bkt++ {
			var a, c [][]fdb.Value
			for it := tbl.Bucket(bkt); it.Next(); {
				a = append(a, it.Row().Fields())
			}
			for it := tbl2.Bucket(bkt); it.Next(); {
				c = append(c, it.Row().Fields())
			}
			require.Len(t, c, len(a), "table %s bucket %d", tbl.Name(), bkt)
			for j := range a {
				for k := range a[j] {
					assert.True(t, a[j][k].Equal(c[j][k]))
				}
			}
		}
	}
}

func TestFromView_EditAndReencode(t *testing.T) {
	buf, err := buildMixed(t).Encode()
	require.NoError(t, err)
	db, err := fdb.Decode(buf)
	require.NoError(t, err)

	edit := builder.FromView(db)
	items := edit.Table("Items")
	require.NotNil(t, items)
	for _, row := range items.Rows() {
		if id, _ := row[0].AsInt32(); id == 2 {
			row[1] = fdb.Text("anima stone")
			row[5] = fdb.Bool(true)
		}
	}

	buf2, err := edit.Encode()
	require.NoError(t, err)
	db2, err := fdb.Decode(buf2)
	require.NoError(t, err)

	rows := db2.Table("Items").Find(0, fdb.Int32(2))
	require.Len(t, rows, 1)
	name, _ := rows[0].Field(1).AsText()
	assert.Equal(t, "anima stone", name)
	tradeable, _ := rows[0].Field(5).AsBool()
	assert.True(t, tradeable)

	// Untouched rows survive the edit.
	other := db2.Table("Items").Find(0, fdb.Int32(1))
	require.Len(t, other, 1)
	name, _ = other[0].Field(1).AsText()
	assert.Equal(t, "torch", name)
}

func TestEncode_FloatBitPassthrough(t *testing.T) {
	b := builder.New()
	tbl, err := b.AddTable("F", []fdb.Column{
		{Name: "id", Kind: fdb.TypeInt32},
		{Name: "v", Kind: fdb.TypeFloat32},
	}, 2)
	require.NoError(t, err)

	// A NaN with a payload must survive encode/decode bit-exactly.
	nan := math.Float32frombits(0x7FC01234)
	require.NoError(t, tbl.Insert(fdb.Int32(1), fdb.Float32(nan)))
	require.NoError(t, tbl.Insert(fdb.Int32(2), fdb.Float32(float32(math.Copysign(0, -1)))))

	buf, err := b.Encode()
	require.NoError(t, err)
	db, err := fdb.Decode(buf)
	require.NoError(t, err)

	rows := db.Table("F").Find(0, fdb.Int32(1))
	require.Len(t, rows, 1)
	bits, ok := rows[0].Field(1).Float32Bits()
	require.True(t, ok)
	assert.Equal(t, uint32(0x7FC01234), bits)

	rows = db.Table("F").Find(0, fdb.Int32(2))
	require.Len(t, rows, 1)
	bits, _ = rows[0].Field(1).Float32Bits()
	assert.Equal(t, uint32(0x80000000), bits)
}
