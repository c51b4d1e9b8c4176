// Package match resolves publication authors against the personnel
// directory. It contains the ORCID resolver, the fuzzy candidate generator,
// the layered-threshold decision engine, and the result aggregator.
package match
