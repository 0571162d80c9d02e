package changekit

import (
	"context"
	"time"

	"github.com/autom8ter/changekit/errors"
	"github.com/dop251/goja"
	"github.com/segmentio/ksuid"
)

// Trigger is a javascript hook an entity type declares - it runs against a
// command's record before the record is validated and persisted
type Trigger struct {
	// Name uniquely identifies the trigger within its entity type
	Name string `json:"name" validate:"required"`
	// Events are the actions the trigger fires on
	Events []Action `json:"events" validate:"required,min=1,dive,oneof='create' 'update' 'delete' 'set'"`
	// Script is the javascript source evaluated when the trigger fires
	Script string `json:"script" validate:"required"`
}

// getTriggerVM returns a javascript runtime with the engine's global bindings
func getTriggerVM(ctx context.Context, overrides map[string]any) (*goja.Runtime, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	var globals = map[string]any{
		"ctx": ctx,
		"ksuid": func() string {
			return newID()
		},
		"now": time.Now,
	}
	for k, v := range globals {
		if err := vm.Set(k, v); err != nil {
			return nil, errors.Wrap(err, 0, "failed to set global variable: %s", k)
		}
	}
	for k, v := range overrides {
		if err := vm.Set(k, v); err != nil {
			return nil, errors.Wrap(err, 0, "failed to set global variable: %s", k)
		}
	}
	return vm, nil
}

// newID returns a globally unique, k-sortable identifier
func newID() string {
	return ksuid.New().String()
}
