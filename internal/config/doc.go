// Package config handles the optional YAML file of animate-generator.
//
// The file lists the packages to process, the output and runtime settings,
// and attribute overrides for types that cannot carry annotations in their
// own source:
//
//	packages: [./examples/...]
//	output: animate_gen.go
//	runtime: animate-generator/animated
//	types:
//	  - package: example.com/geo
//	    name: Shape
//	    variants:
//	      Path: {error: true}
//	    fields:
//	      Rect.Rounded: {equal: true}
//
// Unknown keys are errors.
package config
