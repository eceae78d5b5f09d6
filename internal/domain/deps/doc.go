// Package deps merges the dependency declarations of every capsule used on
// a platform into one manifest.
//
// Declarations have the form "name@version". The name may itself start
// with '@' (scoped npm packages) or be a Maven coordinate
// ("androidx.compose.material3:material3@1.2.1"). When two capsules ask for
// the same name the higher semantic version wins.
package deps
