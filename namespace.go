package mlcli

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map"
)

// Namespace is an ordered mapping from dotted-path keys to parsed values.
// Values are kept in insertion order, which for parse results means
// declaration order of the options and arguments that produced them.
type Namespace struct {
	kv *orderedmap.OrderedMap
}

// NewNamespace creates an empty Namespace.
func NewNamespace() *Namespace {
	return &Namespace{kv: orderedmap.New()}
}

// Set stores a value under key, overwriting any previous value.
func (n *Namespace) Set(key string, value interface{}) {
	n.kv.Set(key, value)
}

// Get looks up key. When no exact entry exists, a prefix lookup is attempted
// and the resulting sub-namespace is returned. The second return value is
// false when neither matches.
func (n *Namespace) Get(key string) (interface{}, bool) {
	if v, ok := n.kv.Get(key); ok {
		return v, true
	}
	if sub, ok := n.Prefix(key); ok {
		return sub, true
	}
	return nil, false
}

// Prefix returns the sub-namespace of every entry whose key starts with
// "prefix.", re-keyed with the lead segment removed. The second return value
// is false when no entry matches - which is distinct from an exact entry
// holding an empty Namespace value.
func (n *Namespace) Prefix(prefix string) (*Namespace, bool) {
	lead := prefix + "."
	sub := NewNamespace()
	found := false
	for p := n.kv.Oldest(); p != nil; p = p.Next() {
		key := p.Key.(string)
		if strings.HasPrefix(key, lead) {
			sub.Set(key[len(lead):], p.Value)
			found = true
		}
	}
	if !found {
		return nil, false
	}
	return sub, true
}

// Keys returns all keys in insertion order.
func (n *Namespace) Keys() []string {
	keys := make([]string, 0, n.kv.Len())
	for p := n.kv.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key.(string))
	}
	return keys
}

// Len returns the number of entries.
func (n *Namespace) Len() int {
	return n.kv.Len()
}

func (n *Namespace) String() string {
	var b strings.Builder
	b.WriteString("{")
	for p := n.kv.Oldest(); p != nil; p = p.Next() {
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", p.Key, p.Value)
	}
	b.WriteString("}")
	return b.String()
}
