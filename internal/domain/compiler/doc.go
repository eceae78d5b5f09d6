// Package compiler turns a validated composition into a project source tree
// for one platform.
//
// Every target shares the same pipeline, implemented by Base:
//
//	Pending -> Validating -> Rendering -> Aggregating -> Packaging
//	        -> Succeeded | PartiallySucceeded | Failed
//
// A Target supplies what differs per platform: where component files live,
// how rendered template text is wrapped into a source file, baseline
// dependencies and the fixed project files (manifests, entry points, root
// layout, theme tokens).
//
// Instance-level problems never abort a compile. Unsupported capsules are
// skipped with a warning, render failures are recorded as errors and the
// remaining instances are still processed. Packaging only runs when no
// error occurred.
//
// Example:
//
//	c, err := compiler.New(types.PlatformWeb, compiler.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	result := c.Compile(comp, registry.Snapshot())
package compiler
