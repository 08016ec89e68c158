// Package template is the small host template engine that components are
// written in.
//
// The syntax follows the Django family:
//
//	{{ expr }}                          output an expression
//	{% if cond %}…{% elif c %}…{% else %}…{% endif %}
//	{% for item in items %}…{% empty %}…{% endfor %}
//	{% for key, value in mapping %}…{% endfor %}
//	{% with name=expr other=expr %}…{% endwith %}
//	{% comment %}…{% endcomment %}  {# inline comment #}
//
// Expressions are HCL native syntax (see package expr). Additional block
// tags are plugged in through a Library; package component registers
// `component`, `slot`, `fill` and `provide` this way.
//
// Rendering is a pure function of (ctx, scope): nodes never mutate the scope
// they are given, they derive new scopes for their children instead.
package template
