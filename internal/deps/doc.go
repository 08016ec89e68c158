// Package deps handles the markers that rendered components leave in their
// output and the strategies that turn them into the final page.
//
// Every component render is prefixed with
//
//	<!-- _RENDERED {class_id},{instance_id},{extra} -->
//
// After the whole tree has rendered, Apply strips the markers and, depending
// on the Strategy, emits each rendered component class's companion style and
// script once.
package deps
