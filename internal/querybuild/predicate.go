package querybuild

import (
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/worklens/internal/ir"
	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/queryir"
	"github.com/roach88/worklens/internal/schema"
)

var compareOps = map[model.FilterOperator]queryir.CompareOp{
	model.OpEq:  queryir.OpEq,
	model.OpNe:  queryir.OpNe,
	model.OpGt:  queryir.OpGt,
	model.OpGte: queryir.OpGte,
	model.OpLt:  queryir.OpLt,
	model.OpLte: queryir.OpLte,
}

var matchModes = map[model.FilterOperator]queryir.MatchMode{
	model.OpContains:   queryir.MatchContains,
	model.OpStartsWith: queryir.MatchPrefix,
	model.OpEndsWith:   queryir.MatchSuffix,
}

// filters builds the conjunction of all filters in request order.
func (b *Builder) filters(et model.EntityType, specs []model.FilterSpec, joins joinSet) (queryir.And, error) {
	preds := make([]queryir.Predicate, 0, len(specs))
	for _, f := range specs {
		p, err := b.predicate(et, f, joins)
		if err != nil {
			return queryir.And{}, err
		}
		preds = append(preds, p)
	}
	return queryir.And{Predicates: preds}, nil
}

func (b *Builder) predicate(et model.EntityType, f model.FilterSpec, joins joinSet) (queryir.Predicate, error) {
	if !f.Operator.Valid() {
		return nil, model.NewUnsupportedOperatorError(f.Operator, f.Field)
	}
	field, err := b.resolve(et, f.Field, joins)
	if err != nil {
		return nil, err
	}
	if err := f.CheckValueShape(); err != nil {
		return nil, err
	}
	if (f.Operator == model.OpHasTag || f.Operator == model.OpHasAnyTag) && field.Kind != schema.KindTags {
		return nil, model.NewInvalidFilterValueError(f.Operator, f.Field, "field is not a tag list")
	}

	switch f.Operator {
	case model.OpIsNull:
		return queryir.Null{Field: field}, nil
	case model.OpIsNotNull:
		return queryir.Null{Field: field, Negated: true}, nil
	}

	value := b.resolveValue(f.Value)

	switch f.Operator {
	case model.OpEq, model.OpNe, model.OpGt, model.OpGte, model.OpLt, model.OpLte:
		v := value.(ir.Scalar)
		if _, isNull := v.(ir.Null); isNull {
			switch f.Operator {
			case model.OpEq:
				return queryir.Null{Field: field}, nil
			case model.OpNe:
				return queryir.Null{Field: field, Negated: true}, nil
			default:
				return nil, model.NewInvalidFilterValueError(f.Operator, f.Field, "cannot order against null")
			}
		}
		return queryir.Compare{Field: field, Op: compareOps[f.Operator], Value: v}, nil

	case model.OpIn, model.OpNotIn:
		return queryir.In{Field: field, Values: []ir.Scalar(value.(ir.List)), Negated: f.Operator == model.OpNotIn}, nil

	case model.OpContains, model.OpStartsWith, model.OpEndsWith:
		text, ok := textOf(value.(ir.Scalar))
		if !ok {
			return nil, model.NewInvalidFilterValueError(f.Operator, f.Field, "cannot match against null")
		}
		return queryir.Match{Field: field, Mode: matchModes[f.Operator], Value: text}, nil

	case model.OpHasTag:
		text, ok := textOf(value.(ir.Scalar))
		if !ok {
			return nil, model.NewInvalidFilterValueError(f.Operator, f.Field, "tag cannot be null")
		}
		return queryir.HasTag{Field: field, Value: ir.String(text)}, nil

	case model.OpHasAnyTag:
		list := value.(ir.List)
		tags := make([]ir.Scalar, 0, len(list))
		for _, elem := range list {
			text, ok := textOf(elem)
			if !ok {
				return nil, model.NewInvalidFilterValueError(f.Operator, f.Field, "tag cannot be null")
			}
			tags = append(tags, ir.String(text))
		}
		return queryir.HasAnyTag{Field: field, Values: tags}, nil
	}

	return nil, model.NewUnsupportedOperatorError(f.Operator, f.Field)
}

// resolveValue resolves time shortcuts in a scalar or in each list element.
func (b *Builder) resolveValue(v ir.Value) ir.Value {
	list, ok := v.(ir.List)
	if !ok {
		return b.resolver.Resolve(v)
	}
	out := make(ir.List, len(list))
	for i, elem := range list {
		out[i] = b.resolver.Resolve(elem).(ir.Scalar)
	}
	return out
}

// textOf renders a scalar as NFC-normalized match text.
func textOf(v ir.Scalar) (string, bool) {
	var s string
	switch val := v.(type) {
	case ir.Null:
		return "", false
	case ir.String:
		s = string(val)
	case ir.Int:
		s = strconv.FormatInt(int64(val), 10)
	case ir.Float:
		s = strconv.FormatFloat(float64(val), 'f', -1, 64)
	case ir.Bool:
		s = strconv.FormatBool(bool(val))
	case ir.Date:
		s = val.String()
	case ir.Timestamp:
		s = val.String()
	}
	return norm.NFC.String(s), true
}
