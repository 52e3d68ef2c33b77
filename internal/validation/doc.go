// Package validation checks workbooks before they are downloaded into or
// read from the pipeline directories.
package validation
