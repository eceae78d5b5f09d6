// Package template renders capsule code templates.
//
// A template is literal target source with placeholders:
//
//	{{ label }}                       bound or default prop value
//	{{ disabled ? "true" : "false" }} branch on the truthiness of a ref
//	{{ label | upper | quote }}       value through filters
//	{{ "{{" }}                        literal text
//
// References starting with '@' resolve against the instance itself:
// @id, @name, @capsule, @app, @platform, @children, @children.N and
// @theme.<token>. Rendering is a single pass; substituted text is never
// scanned again.
//
// Double braces that hold no expression, such as a JSX inline style
// style={{ padding: 8 }} or an empty {{}}, are left as written.
package template
