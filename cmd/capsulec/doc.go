/*
Capsulec compiles capsule compositions into native projects.

Usage:

	capsulec [global options] command [command options] [arguments...]

Commands:

	compile <composition>   compile for the composition's targets
	validate <composition>  check a composition against the catalog
	catalog list            list capsules, optionally by category or tag
	catalog show <id>       print one capsule definition
	catalog watch           reload the catalog on change until interrupted

Configuration is read from the environment (CAPSULE_CATALOG_DIR,
CAPSULE_PROP_MODE, LOG_LEVEL, ...) and overridden by flags. Command output
is JSON on stdout; logs go to stderr.
*/
package main
