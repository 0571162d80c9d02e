package changekit_test

import (
	"encoding/json"
	"testing"

	"github.com/autom8ter/changekit"
	"github.com/autom8ter/changekit/errors"
	"github.com/stretchr/testify/assert"
)

func TestModification(t *testing.T) {
	t.Run("validate", func(t *testing.T) {
		m := &changekit.Modification{
			Collection: "product",
			Action:     changekit.CreateAction,
			Values:     changekit.NewValues(map[string]any{"name": "hammer"}),
		}
		assert.NoError(t, m.Validate())
	})
	t.Run("validate requires a collection", func(t *testing.T) {
		m := &changekit.Modification{Action: changekit.CreateAction}
		assert.Equal(t, errors.Validation, errors.Extract(m.Validate()).Code)
	})
	t.Run("validate requires an action", func(t *testing.T) {
		m := &changekit.Modification{Collection: "product"}
		assert.Equal(t, errors.Validation, errors.Extract(m.Validate()).Code)
	})
	t.Run("deletes updates and sets require a key", func(t *testing.T) {
		for _, action := range []changekit.Action{changekit.DeleteAction, changekit.UpdateAction, changekit.SetAction} {
			m := &changekit.Modification{Collection: "product", Action: action}
			err := m.Validate()
			assert.Equal(t, errors.Validation, errors.Extract(err).Code)
			assert.Contains(t, err.Error(), "require at least one key value")
		}
	})
	t.Run("creates do not require a key", func(t *testing.T) {
		m := &changekit.Modification{Collection: "product", Action: changekit.CreateAction}
		assert.NoError(t, m.Validate())
	})
	t.Run("action predicates", func(t *testing.T) {
		assert.True(t, (&changekit.Modification{Action: changekit.CreateAction}).IsCreate())
		assert.True(t, (&changekit.Modification{Action: changekit.DeleteAction}).IsDelete())
		assert.True(t, (&changekit.Modification{Action: changekit.UpdateAction}).IsUpdate())
		assert.True(t, (&changekit.Modification{Action: changekit.SetAction}).IsSet())
		assert.False(t, (&changekit.Modification{Action: changekit.SetAction}).IsCreate())
	})
	t.Run("apply to appends equality clauses", func(t *testing.T) {
		m := &changekit.Modification{
			Collection: "product",
			Action:     changekit.UpdateAction,
			Key: changekit.Values{
				changekit.NewValue("id", "p1"),
				changekit.NewValue("category", "tools"),
			},
		}
		query := m.ApplyTo(changekit.Query{})
		assert.Len(t, query.Where, 2)
		assert.Equal(t, changekit.Where{Field: "id", Op: changekit.WhereOpEq, Value: "p1"}, query.Where[0])
		assert.Equal(t, changekit.Where{Field: "category", Op: changekit.WhereOpEq, Value: "tools"}, query.Where[1])
	})
	t.Run("record is empty until applied", func(t *testing.T) {
		m := &changekit.Modification{Collection: "product", Action: changekit.CreateAction}
		assert.Nil(t, m.Record())
	})
}

func TestChangeSet(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var set changekit.ChangeSet
		assert.NoError(t, json.Unmarshal([]byte(`{
			"modifications": [
				{
					"collection": "product",
					"action": "update",
					"key": [{"name": "id", "scalar": "p1"}],
					"values": [
						{"name": "price", "scalar": 9.99},
						{"name": "supplier", "nested": [{"name": "name", "scalar": "Acme"}]}
					]
				}
			],
			"metadata": {"client": "importer"}
		}`), &set))
		assert.Len(t, set.Modifications, 1)
		m := set.Modifications[0]
		assert.NoError(t, m.Validate())
		assert.True(t, m.IsUpdate())
		price, ok := m.Values.Get("price")
		assert.True(t, ok)
		assert.Equal(t, 9.99, price.Scalar)
		supplier, ok := m.Values.Get("supplier")
		assert.True(t, ok)
		assert.True(t, supplier.IsNested())
		client, ok := set.Metadata.Get("client")
		assert.True(t, ok)
		assert.Equal(t, "importer", client)
	})
}
