// Package composition parses composition documents and validates them into
// an index arena.
//
// Documents may write instances explicitly or with the "capsule#id"
// shorthand:
//
//	root:
//	  - capsule: card
//	    id: hero
//	    children:
//	      - button#buy: {label: Buy}
//	      - text: {content: Welcome}
//
// Instances without an id are named "<capsuleId>-<n>". The Builder resolves
// every capsule against a registry view, validates props and children, and
// reports all problems at once in an *errors.ValidationError.
package composition
