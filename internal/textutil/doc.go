// Package textutil provides name normalization and fuzzy similarity
// primitives shared by the matching components.
package textutil
