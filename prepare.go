package changekit

import (
	"context"

	"github.com/autom8ter/changekit/errors"
	"github.com/autom8ter/changekit/util"
)

// PreparerOpt is an option for configuring a Preparer
type PreparerOpt func(p *Preparer)

// WithPreparerLogger overrides the preparer's logger
func WithPreparerLogger(logger Logger) PreparerOpt {
	return func(p *Preparer) {
		p.logger = logger
	}
}

// Preparer translates protocol neutral change sets into staged mutations
// against a persistence context
type Preparer struct {
	logger Logger
}

// NewPreparer creates a preparer
func NewPreparer(opts ...PreparerOpt) *Preparer {
	p := &Preparer{}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Prepare applies the change set's modifications to the persistence context
// strictly in order - later modifications see the staged effects of earlier
// ones. Nothing becomes durable until the caller commits the context.
func (p *Preparer) Prepare(ctx context.Context, set *ChangeSet, pctx Context) error {
	if err := util.ValidateStruct(set); err != nil {
		return err
	}
	if set.Metadata != nil {
		ctx = set.Metadata.ToContext(ctx)
	}
	for i, entry := range set.Modifications {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.Internal, "change set aborted at modification %d", i)
		default:
		}
		if err := p.applyModification(ctx, entry, pctx); err != nil {
			p.error(ctx, "failed to apply modification", err, map[string]any{
				"index":      i,
				"collection": entry.Collection,
				"action":     entry.Action,
			})
			return errors.Wrap(err, 0, "modification %d (%s %s)", i, entry.Action, entry.Collection)
		}
		p.debug(ctx, "applied modification", map[string]any{
			"index":      i,
			"collection": entry.Collection,
			"action":     entry.Action,
		})
	}
	return nil
}

func (p *Preparer) applyModification(ctx context.Context, entry *Modification, pctx Context) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	typ := pctx.GetSchema(ctx, entry.Collection)
	if typ == nil {
		return errors.New(errors.Validation, "unknown collection: %s", entry.Collection)
	}
	switch entry.Action {
	case CreateAction:
		record := typ.NewRecord()
		if err := applyValues(record, entry.Values); err != nil {
			return err
		}
		collection, err := pctx.Collection(entry.Collection)
		if err != nil {
			return err
		}
		if err := collection.Add(ctx, record); err != nil {
			return err
		}
		entry.setRecord(record)
	case DeleteAction:
		matched, err := resolveRecord(ctx, pctx, entry, typ)
		if err != nil {
			return err
		}
		collection, err := pctx.Collection(entry.Collection)
		if err != nil {
			return err
		}
		if err := collection.Remove(ctx, matched); err != nil {
			return err
		}
		entry.setRecord(matched)
	case UpdateAction:
		matched, err := resolveRecord(ctx, pctx, entry, typ)
		if err != nil {
			return err
		}
		tracked, err := pctx.Attach(ctx, entry.Collection, matched)
		if err != nil {
			return err
		}
		if err := tracked.SetAll(entry.Values); err != nil {
			return err
		}
		entry.setRecord(tracked.Record())
	case SetAction:
		matched, err := resolveRecord(ctx, pctx, entry, typ)
		if err != nil {
			return err
		}
		record, err := buildReplacement(entry, typ)
		if err != nil {
			return err
		}
		if err := record.SetField(typ.PrimaryKey(), matched.Get(typ.PrimaryKey())); err != nil {
			return err
		}
		if err := pctx.Replace(ctx, entry.Collection, record); err != nil {
			return err
		}
		entry.setRecord(record)
	default:
		return errors.New(errors.UnsupportedOperation, "unsupported modification action: %s", entry.Action)
	}
	return nil
}

func (p *Preparer) debug(ctx context.Context, msg string, tags map[string]any) {
	if p.logger == nil {
		return
	}
	p.logger.Debug(ctx, msg, tags)
}

func (p *Preparer) error(ctx context.Context, msg string, err error, tags map[string]any) {
	if p.logger == nil {
		return
	}
	p.logger.Error(ctx, msg, err, tags)
}
