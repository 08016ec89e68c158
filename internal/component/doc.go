// Package component implements reusable template components with named
// slots and caller-supplied fills.
//
// A component is a Definition (a template plus optional data hooks) held in
// a Registry. Templates invoke components with
//
//	{% component "card" title="Hi" %}
//	  {% fill "header" data="d" fallback="fb" %}…{% endfill %}
//	{% endcomponent %}
//
// and declare insertion points with
//
//	{% slot "header" default required key=value %}fallback{% endslot %}
//
// For every slot encountered while a component body renders, the matching
// fill (or the slot's fallback) is rendered under the scope chosen by the
// registry's ContextBehavior. Render-call state (the per-render arena, the
// active instance, the provider chain and the root scope) travels on the
// context.Context; scopes travel as explicit arguments.
package component
