package filter

import (
	"fmt"
	"time"
)

// MaxConditions is the maximum number of conditions per expression.
const MaxConditions = 32

// Op is a filter comparison operator.
type Op string

// Filter operator constants.
const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpIn       Op = "in"
	OpNin      Op = "nin"
	OpContains Op = "contains"
)

// IsValid checks if the operator is one of the supported values.
func (o Op) IsValid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin, OpContains:
		return true
	}
	return false
}

// isOrdering reports whether the operator compares magnitudes and thus
// only applies to timestamp fields.
func (o Op) isOrdering() bool {
	switch o {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Field is a filterable record field.
type Field string

// Filterable field constants. Filtering is restricted to indexed fields;
// arbitrary content paths are rejected at validation.
const (
	FieldCategory  Field = "category"
	FieldStatus    Field = "status"
	FieldTags      Field = "tags"
	FieldCreatedAt Field = "created_at"
	FieldUpdatedAt Field = "updated_at"
)

// IsValid checks if the field is filterable.
func (f Field) IsValid() bool {
	switch f {
	case FieldCategory, FieldStatus, FieldTags, FieldCreatedAt, FieldUpdatedAt:
		return true
	}
	return false
}

// IsTemporal reports whether the field holds a timestamp.
func (f Field) IsTemporal() bool {
	return f == FieldCreatedAt || f == FieldUpdatedAt
}

// Condition is a single filter clause over one field.
type Condition struct {
	field  Field
	op     Op
	value  string
	values []string
	ts     time.Time
}

// NewMatch creates an equality-style condition (eq, ne, contains).
func NewMatch(field Field, op Op, value string) (Condition, error) {
	if !field.IsValid() {
		return Condition{}, fmt.Errorf("field %q is not filterable", field)
	}
	switch op {
	case OpEq, OpNe, OpContains:
	default:
		return Condition{}, fmt.Errorf("operator %q requires a list or range form", op)
	}
	if field.IsTemporal() {
		return Condition{}, fmt.Errorf("field %q requires a range operator", field)
	}
	if value == "" {
		return Condition{}, fmt.Errorf("value is required for field %q", field)
	}
	return Condition{field: field, op: op, value: value}, nil
}

// NewSet creates a membership condition (in, nin).
func NewSet(field Field, op Op, values []string) (Condition, error) {
	if !field.IsValid() {
		return Condition{}, fmt.Errorf("field %q is not filterable", field)
	}
	if op != OpIn && op != OpNin {
		return Condition{}, fmt.Errorf("operator %q is not a set operator", op)
	}
	if field.IsTemporal() {
		return Condition{}, fmt.Errorf("field %q requires a range operator", field)
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for field %q", field)
	}
	for _, v := range values {
		if v == "" {
			return Condition{}, fmt.Errorf("empty value in set for field %q", field)
		}
	}
	return Condition{field: field, op: op, values: values}, nil
}

// NewTemporal creates an ordered comparison against a timestamp field.
func NewTemporal(field Field, op Op, ts time.Time) (Condition, error) {
	if !field.IsTemporal() {
		return Condition{}, fmt.Errorf("field %q is not a timestamp", field)
	}
	if !op.isOrdering() {
		return Condition{}, fmt.Errorf("operator %q is not an ordering operator", op)
	}
	if ts.IsZero() {
		return Condition{}, fmt.Errorf("timestamp is required for field %q", field)
	}
	return Condition{field: field, op: op, ts: ts}, nil
}

// Field returns the filtered field.
func (c Condition) Field() Field { return c.field }

// Op returns the comparison operator.
func (c Condition) Op() Op { return c.op }

// Value returns the scalar comparison value.
func (c Condition) Value() string { return c.value }

// Values returns the set comparison values.
func (c Condition) Values() []string { return c.values }

// Timestamp returns the temporal comparison value.
func (c Condition) Timestamp() time.Time { return c.ts }

// Expression is a conjunction of filter conditions.
type Expression struct {
	conditions []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(conditions []Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{conditions: conditions}, nil
}

// Conditions returns the conjunction members.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }
