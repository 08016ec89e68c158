// Package config defines the format-agnostic configuration model: render
// settings and component manifests, along with the interfaces (Loader,
// Converter) for loading and interpreting configuration.
//
// Concrete implementations of the interfaces, such as for HCL, are provided
// in separate packages.
package config
