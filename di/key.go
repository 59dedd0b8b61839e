package di

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// InstanceKey is the canonical identity used by the runtime cache: the
// declared abstract type plus the ordered list of parameter types. Two
// keys are equal iff both parts match element-wise; this is the sole
// cache identity.
type InstanceKey struct {
	abstractType string
	// parameterTypes joined with a separator that cannot occur inside a
	// canonical type rendering, so the struct stays comparable.
	parameterTypes string
	arity          int
}

const keySeparator = "\x1f"

// NewInstanceKey builds a key from canonical type renderings.
func NewInstanceKey(abstractType string, parameterTypes ...string) InstanceKey {
	return InstanceKey{
		abstractType:   abstractType,
		parameterTypes: strings.Join(parameterTypes, keySeparator),
		arity:          len(parameterTypes),
	}
}

// AbstractType returns the key's abstract type rendering.
func (k InstanceKey) AbstractType() string { return k.abstractType }

// ParameterTypes returns the ordered parameter type renderings.
func (k InstanceKey) ParameterTypes() []string {
	if k.arity == 0 {
		return nil
	}
	return strings.Split(k.parameterTypes, keySeparator)
}

// Hash returns a structural hash consistent with equality.
func (k InstanceKey) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(k.abstractType))
	h.Write([]byte{0})
	h.Write([]byte(k.parameterTypes))
	return h.Sum64()
}

// withParameterValues derives the runtime cache identity: the declared
// key plus the rendered argument values, so resolves with different
// arguments cache independently within a scope.
func (k InstanceKey) withParameterValues(parameters []any) InstanceKey {
	if len(parameters) == 0 {
		return k
	}
	rendered := make([]string, 0, len(parameters))
	for _, p := range parameters {
		rendered = append(rendered, fmt.Sprint(p))
	}
	derived := k
	derived.parameterTypes = k.parameterTypes + keySeparator + "=" + strings.Join(rendered, keySeparator)
	return derived
}

func (k InstanceKey) String() string {
	if k.arity == 0 {
		return k.abstractType
	}
	return k.abstractType + "(" + strings.Join(k.ParameterTypes(), ", ") + ")"
}
