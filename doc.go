// Package wisp compiles wisp source files into JSX modules.
//
// The pipeline is a synchronous sequence of pure passes over one immutable
// AST: parse, whole-program binding analysis, per-component validation,
// generation. The only asynchrony lives at the plugin-hook boundary.
package wisp
