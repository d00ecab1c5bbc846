package rowmap

import (
	"reflect"

	"row-mapper/internal/shape"
)

// instantiate builds the instance from field values ordered as the descriptor fields.
func (m *Mapper) instantiate(ctx mappingContext, values []reflect.Value) (reflect.Value, error) {
	switch m.desc.Strategy {
	case StrategyConstructor:
		return m.construct(ctx, values)
	default:
		return m.populate(ctx, values)
	}
}

// construct passes every value to the constructor at once.
func (m *Mapper) construct(ctx mappingContext, values []reflect.Value) (reflect.Value, error) {
	for i, v := range values {
		if !v.IsValid() {
			values[i] = reflect.Zero(m.fields[i].Type)
		}
	}

	v, err := m.desc.constructor.Call(values)
	if err != nil {
		return reflect.Value{}, &InstantiationError{Type: m.desc.Type, Field: ctx.path, Err: err}
	}

	return v, nil
}

// populate sets values one by one on a private default instance.
func (m *Mapper) populate(ctx mappingContext, values []reflect.Value) (reflect.Value, error) {
	v := reflect.New(m.desc.Type).Elem()

	if factory := m.desc.factory; factory != nil {
		def, err := factory.Call(nil)
		if err != nil {
			return reflect.Value{}, &InstantiationError{Type: m.desc.Type, Field: ctx.path, Err: err}
		}

		v.Set(def)
	}

	for i := range m.fields {
		if !values[i].IsValid() {
			continue
		}

		shape.FieldByIndexAlloc(v, m.fields[i].Index).Set(values[i])
	}

	return v, nil
}
