package registry

import "github.com/teranos/jsbind/header"

// Classify exposes classify to the external test package.
func (r *Registry) Classify(t header.Type, scope []string) TypeRef {
	return r.classify(t, scope)
}
