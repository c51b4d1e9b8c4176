// Package people provides the HTTP client for the institutional personnel
// directory. The curation core only ever reads from the directory.
package people
