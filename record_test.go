package changekit_test

import (
	"strings"
	"testing"
	"time"

	"github.com/autom8ter/changekit"
	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecord(t *testing.T) {
	t.Run("decode", func(t *testing.T) {
		record, err := changekit.DecodeRecord(testutil.ProductType.Fields(), []byte(`{
			"id": "p1",
			"name": "hammer",
			"category": "hardware",
			"price": 9.99,
			"quantity": 3,
			"inStock": false,
			"addedAt": "2024-06-01T10:30:00",
			"supplier": {"name": "Acme", "contact": {"email": "sales@acme.test"}}
		}`))
		assert.NoError(t, err)
		assert.Equal(t, "p1", record.GetString("id"))
		assert.Equal(t, 9.99, record.GetFloat("price"))
		assert.Equal(t, int64(3), record.GetInt("quantity"))
		assert.False(t, record.GetBool("inStock"))
		assert.Equal(t, "Acme", record.GetString("supplier.name"))
		assert.Equal(t, "sales@acme.test", record.GetString("supplier.contact.email"))
		assert.Equal(t, "", record.GetString("supplier.contact.phone"))
		assert.Equal(t, "", record.GetString("sku"))
		addedAt, ok := record.Get("addedAt").(time.Time)
		assert.True(t, ok)
		assert.Equal(t, 10, addedAt.Hour())
	})
	t.Run("decode drops timestamp offsets", func(t *testing.T) {
		record, err := changekit.DecodeRecord(testutil.ProductType.Fields(), []byte(`{"id":"p1","addedAt":"2024-06-01T10:30:00+07:00"}`))
		assert.NoError(t, err)
		addedAt, ok := record.Get("addedAt").(time.Time)
		assert.True(t, ok)
		assert.Equal(t, 10, addedAt.Hour())
		assert.Equal(t, time.UTC, addedAt.Location())
	})
	t.Run("decode ignores unknown fields", func(t *testing.T) {
		record, err := changekit.DecodeRecord(testutil.ProductType.Fields(), []byte(`{"id":"p1","bogus":true}`))
		assert.NoError(t, err)
		assert.Equal(t, "p1", record.GetString("id"))
		assert.Nil(t, record.Get("bogus"))
	})
	t.Run("decode rejects invalid json", func(t *testing.T) {
		_, err := changekit.DecodeRecord(testutil.ProductType.Fields(), []byte("not json"))
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
	t.Run("decode rejects an invalid duration", func(t *testing.T) {
		_, err := changekit.DecodeRecord(testutil.OrderType.Fields(), []byte(`{"id":1,"processingTime":"fast"}`))
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
	t.Run("decode temporal fields", func(t *testing.T) {
		record, err := changekit.DecodeRecord(testutil.OrderType.Fields(), []byte(`{
			"id": 7,
			"customerId": "c1",
			"placedAt": "2024-06-01T10:30:00",
			"deliverySlot": "09:30:00",
			"processingTime": "2h45m"
		}`))
		assert.NoError(t, err)
		assert.Equal(t, int64(7), record.GetInt("id"))
		assert.Equal(t, changekit.NewTimeOfDay(9, 30, 0, 0), record.Get("deliverySlot"))
		assert.Equal(t, 2*time.Hour+45*time.Minute, record.Get("processingTime"))
	})
	t.Run("set and get with dot notation", func(t *testing.T) {
		record := testutil.ProductType.NewRecord()
		assert.NoError(t, record.SetField("name", "wrench"))
		assert.NoError(t, record.SetField("supplier.contact.email", "sales@acme.test"))
		assert.Equal(t, "sales@acme.test", record.GetString("supplier.contact.email"))
		err := record.SetField("nope", 1)
		assert.Equal(t, errors.UnknownField, errors.Extract(err).Code)
		err = record.SetField("price", "not a float")
		assert.Equal(t, errors.UnsupportedFieldType, errors.Extract(err).Code)
		assert.Nil(t, record.Get("nope"))
	})
	t.Run("set coerces values", func(t *testing.T) {
		record := testutil.OrderType.NewRecord()
		assert.NoError(t, record.Set("total", 42))
		assert.Equal(t, float64(42), record.GetFloat("total"))
		assert.NoError(t, record.Set("quantity", 3.0))
		assert.Equal(t, int64(3), record.GetInt("quantity"))
		err := record.Set("quantity", 3.5)
		assert.Equal(t, errors.UnsupportedFieldType, errors.Extract(err).Code)
		assert.NoError(t, record.Set("placedAt", changekit.NewDate(2024, time.June, 1)))
		assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), record.Get("placedAt"))
		assert.NoError(t, record.Set("processingTime", changekit.NewTimeOfDay(2, 30, 0, 0)))
		assert.Equal(t, 2*time.Hour+30*time.Minute, record.Get("processingTime"))
		assert.NoError(t, record.Set("status", "shipped"))
		err = record.Set("status", "lost")
		assert.Equal(t, errors.EnumParse, errors.Extract(err).Code)
	})
	t.Run("nested values reset omitted fields", func(t *testing.T) {
		record := testutil.NewProductRecord()
		assert.NoError(t, record.Set("supplier", map[string]any{"name": "Acme"}))
		assert.Equal(t, "Acme", record.GetString("supplier.name"))
		assert.Equal(t, "", record.GetString("supplier.contact.email"))
		assert.NoError(t, record.Set("supplier", map[string]any{}))
		assert.Equal(t, "", record.GetString("supplier.name"))
	})
	t.Run("nested values on a scalar field are rejected", func(t *testing.T) {
		record := testutil.ProductType.NewRecord()
		err := record.Set("price", map[string]any{"amount": 1})
		assert.Equal(t, errors.UnsupportedFieldType, errors.Extract(err).Code)
	})
	t.Run("patch", func(t *testing.T) {
		record := testutil.NewProductRecord()
		assert.NoError(t, record.Patch(map[string]any{
			"price":                  1.5,
			"supplier.name":          "Acme",
			"supplier.contact.email": "sales@acme.test",
		}))
		assert.Equal(t, 1.5, record.GetFloat("price"))
		assert.Equal(t, "Acme", record.GetString("supplier.name"))
		assert.Equal(t, "sales@acme.test", record.GetString("supplier.contact.email"))
	})
	t.Run("clone is deep", func(t *testing.T) {
		record := testutil.NewProductRecord()
		clone := record.Clone()
		assert.True(t, record.Equal(clone))
		assert.NoError(t, clone.SetField("supplier.name", "changed"))
		assert.NotEqual(t, "changed", record.GetString("supplier.name"))
		assert.False(t, record.Equal(clone))
		assert.False(t, record.Equal(nil))
	})
	t.Run("marshal uses definition order and temporal forms", func(t *testing.T) {
		record := testutil.OrderType.NewRecord()
		assert.NoError(t, record.Set("customerId", "c1"))
		assert.NoError(t, record.Set("placedAt", time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC)))
		assert.NoError(t, record.Set("deliverySlot", changekit.NewTimeOfDay(9, 30, 0, 0)))
		assert.NoError(t, record.Set("processingTime", 90*time.Minute))
		jsonStr := record.String()
		assert.Contains(t, jsonStr, `"placedAt":"2024-06-01T10:30:00"`)
		assert.Contains(t, jsonStr, `"deliverySlot":"09:30:00"`)
		assert.Contains(t, jsonStr, `"processingTime":"1h30m0s"`)
		assert.True(t, strings.Index(jsonStr, `"id"`) < strings.Index(jsonStr, `"status"`))
	})
	t.Run("marshal round trip", func(t *testing.T) {
		record := testutil.NewOrderRecord(9, "c1")
		bits, err := record.MarshalJSON()
		assert.NoError(t, err)
		decoded, err := changekit.DecodeRecord(testutil.OrderType.Fields(), bits)
		assert.NoError(t, err)
		assert.True(t, record.Equal(decoded))
		product := testutil.NewProductRecord()
		decodedProduct, err := changekit.DecodeRecord(testutil.ProductType.Fields(), product.Bytes())
		assert.NoError(t, err)
		assert.True(t, product.Equal(decodedProduct))
	})
	t.Run("scan", func(t *testing.T) {
		type product struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Price    float64 `json:"price"`
			Supplier struct {
				Name string `json:"name"`
			} `json:"supplier"`
		}
		record := testutil.NewProductRecord()
		var p product
		assert.NoError(t, record.Scan(&p))
		assert.Equal(t, record.GetString("id"), p.ID)
		assert.Equal(t, record.GetString("name"), p.Name)
		assert.Equal(t, record.GetFloat("price"), p.Price)
		assert.Equal(t, record.GetString("supplier.name"), p.Supplier.Name)
	})
	t.Run("where", func(t *testing.T) {
		record := testutil.ProductType.NewRecord()
		assert.NoError(t, record.Patch(map[string]any{
			"id":       "p1",
			"name":     "hammer",
			"category": "hardware",
			"price":    25.0,
			"quantity": 10,
		}))
		for _, tt := range []struct {
			where changekit.Where
			pass  bool
		}{
			{changekit.Where{Field: "category", Op: changekit.WhereOpEq, Value: "hardware"}, true},
			{changekit.Where{Field: "category", Op: changekit.WhereOpNeq, Value: "hardware"}, false},
			{changekit.Where{Field: "price", Op: changekit.WhereOpGte, Value: 25}, true},
			{changekit.Where{Field: "price", Op: changekit.WhereOpGt, Value: 25}, false},
			{changekit.Where{Field: "price", Op: changekit.WhereOpLt, Value: 100}, true},
			{changekit.Where{Field: "price", Op: changekit.WhereOpLte, Value: 24}, false},
			{changekit.Where{Field: "quantity", Op: changekit.WhereOpIn, Value: []any{5, 10}}, true},
			{changekit.Where{Field: "quantity", Op: changekit.WhereOpIn, Value: []any{1, 2}}, false},
			{changekit.Where{Field: "name", Op: changekit.WhereOpContains, Value: "ham"}, true},
			{changekit.Where{Field: "name", Op: changekit.WhereOpContains, Value: "xyz"}, false},
		} {
			pass, err := record.Where([]changekit.Where{tt.where})
			assert.NoError(t, err)
			assert.Equal(t, tt.pass, pass, "%s %s %v", tt.where.Field, tt.where.Op, tt.where.Value)
		}
	})
	t.Run("where rejects an invalid operator", func(t *testing.T) {
		record := testutil.NewProductRecord()
		_, err := record.Where([]changekit.Where{{Field: "name", Op: "like", Value: "x"}})
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
	t.Run("where rejects incomparable values", func(t *testing.T) {
		record := testutil.NewProductRecord()
		_, err := record.Where([]changekit.Where{{Field: "supplier", Op: changekit.WhereOpGt, Value: 1}})
		assert.Equal(t, errors.Validation, errors.Extract(err).Code)
	})
	t.Run("where compares temporal values", func(t *testing.T) {
		record := testutil.CustomerType.NewRecord()
		assert.NoError(t, record.Set("joined", changekit.NewDate(2024, time.June, 1)))
		pass, err := record.Where([]changekit.Where{{Field: "joined", Op: changekit.WhereOpGt, Value: changekit.NewDate(2024, time.January, 1)}})
		assert.NoError(t, err)
		assert.True(t, pass)
		pass, err = record.Where([]changekit.Where{{Field: "joined", Op: changekit.WhereOpEq, Value: changekit.NewDate(2024, time.June, 1)}})
		assert.NoError(t, err)
		assert.True(t, pass)
	})
	t.Run("diff", func(t *testing.T) {
		before := testutil.NewProductRecord()
		after := before.Clone()
		assert.Empty(t, after.Diff(before))
		assert.NoError(t, after.Set("price", 123456.78))
		assert.NoError(t, after.Set("supplier.name", "changed"))
		changes := after.Diff(before)
		assert.Len(t, changes, 2)
		var paths []string
		for _, change := range changes {
			assert.Equal(t, changekit.FieldOpReplace, change.Op)
			paths = append(paths, change.Path)
		}
		assert.Contains(t, paths, "price")
		assert.Contains(t, paths, "supplier.name")
	})
	t.Run("diff against nothing adds every leaf path", func(t *testing.T) {
		record := testutil.NewProductRecord()
		changes := record.Diff(nil)
		assert.Len(t, changes, 11)
		for _, change := range changes {
			assert.Equal(t, changekit.FieldOpAdd, change.Op)
		}
	})
	t.Run("records helpers", func(t *testing.T) {
		records := changekit.Records{testutil.NewProductRecord(), testutil.NewProductRecord(), testutil.NewProductRecord()}
		assert.Len(t, records.Slice(0, 2), 2)
		filtered := records.Filter(func(record *changekit.Record, i int) bool {
			return i > 0
		})
		assert.Len(t, filtered, 2)
		var seen int
		records.ForEach(func(record *changekit.Record, i int) {
			seen++
		})
		assert.Equal(t, 3, seen)
	})
}
