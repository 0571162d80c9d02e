package changekit_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/autom8ter/changekit"
	"github.com/autom8ter/changekit/testutil"
)

func getStore() changekit.Store {
	ctx := context.Background()
	store, err := changekit.Open(ctx, "badger", map[string]any{
		"storage_path": "",
	})
	if err != nil {
		panic(err)
	}
	if err := store.ConfigureCollections(ctx, testutil.AllTypes...); err != nil {
		panic(err)
	}
	return store
}

func ExampleOpen() {
	store := getStore()
	defer store.Close(context.Background())
	fmt.Println(strings.Join(store.Collections(context.Background()), ","))
	// Output:
	// customer,order,product
}

func ExampleNewEntityType() {
	typ, err := changekit.NewEntityType([]byte(testutil.ProductYAML))
	if err != nil {
		panic(err)
	}
	fmt.Println(typ.Collection(), typ.PrimaryKey())
	// Output:
	// product id
}

func ExampleStore_Apply() {
	store := getStore()
	defer store.Close(context.Background())
	set := &changekit.ChangeSet{
		Modifications: []*changekit.Modification{{
			Collection: "product",
			Action:     changekit.CreateAction,
			Values: changekit.NewValues(map[string]any{
				"name":     "hammer",
				"category": "hardware",
				"price":    9.99,
			}),
		}},
	}
	if err := store.Apply(context.Background(), set); err != nil {
		panic(err)
	}
	fmt.Println(set.Modifications[0].Record().GetString("name"))
	// Output:
	// hammer
}

func ExampleStore_ChangeStream() {
	store := getStore()
	defer store.Close(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	_ = store.ChangeStream(ctx, "product", func(ctx context.Context, event changekit.CDC) error {
		fmt.Println(event.Action, event.RecordID)
		return nil
	})
}

func ExampleStore_Close() {
	store := getStore()
	if err := store.Close(context.Background()); err != nil {
		panic(err)
	}
}
