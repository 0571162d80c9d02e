package util_test

import (
	"testing"

	"github.com/autom8ter/changekit/util"
	"github.com/stretchr/testify/assert"
)

func TestUtil(t *testing.T) {
	t.Run("yaml / json conversions", func(t *testing.T) {
		jsonData := []byte(`{"collection":"products","fields":[{"name":"id","kind":"string"}]}`)
		yml, err := util.JSONToYAML(jsonData)
		assert.Nil(t, err)
		back, err := util.YAMLToJSON(yml)
		assert.Nil(t, err)
		assert.JSONEq(t, string(jsonData), string(back))
	})
	t.Run("yaml to json passes json through", func(t *testing.T) {
		jsonData := []byte(`{"collection":"products"}`)
		out, err := util.YAMLToJSON(jsonData)
		assert.Nil(t, err)
		assert.Equal(t, jsonData, out)
	})
	t.Run("json string", func(t *testing.T) {
		assert.Equal(t, `{"name":"widget"}`, util.JSONString(map[string]any{"name": "widget"}))
	})
	t.Run("decode", func(t *testing.T) {
		type product struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}
		var p product
		assert.Nil(t, util.Decode(map[string]any{"name": "widget", "price": "9.99"}, &p))
		assert.Equal(t, "widget", p.Name)
		assert.Equal(t, 9.99, p.Price)
	})
	t.Run("validate", func(t *testing.T) {
		type usr struct {
			Name string `validate:"required"`
		}
		var u = usr{}
		assert.NotNil(t, util.ValidateStruct(&u))
		u.Name = "a name"
		assert.Nil(t, util.ValidateStruct(&u))
	})
}
