package builder_test

import (
	"fmt"
	"log"

	"github.com/relicdb/relicdb/pkg/builder"
	"github.com/relicdb/relicdb/pkg/fdb"
)

// Example builds a small table, encodes it, and queries the decoded file.
func Example() {
	b := builder.New()
	items, err := b.AddTable("Items", []fdb.Column{
		{Name: "id", Kind: fdb.TypeInt32},
		{Name: "name", Kind: fdb.TypeText},
	}, 4)
	if err != nil {
		log.Fatal(err)
	}
	if err := items.Insert(fdb.Int32(1), fdb.Text("torch")); err != nil {
		log.Fatal(err)
	}
	if err := items.Insert(fdb.Int32(2), fdb.Text("rope")); err != nil {
		log.Fatal(err)
	}

	buf, err := b.Encode()
	if err != nil {
		log.Fatal(err)
	}

	db, err := fdb.Decode(buf)
	if err != nil {
		log.Fatal(err)
	}
	for _, row := range db.Table("Items").Find(0, fdb.Int32(2)) {
		name, _ := row.Field(1).AsText()
		fmt.Printf("id=2 name=%s\n", name)
	}

	// Output:
	// id=2 name=rope
}
