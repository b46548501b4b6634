// Package catalog classifies files into semantic categories by extension.
//
// It is a dependency-free foundation imported by the scanner, the directory
// lister and the HTTP adapter. The category table is policy: callers build a
// Classifier from their own table, or use DefaultTable.
//
// # Extensions
//
// Extensions are always lower-case and carry no leading dot:
//
//	catalog.Extension("Holiday.JPG") // "jpg"
//	catalog.Extension("archive.tar.gz") // "gz"
//	catalog.Extension("README") // ""
//
// # Categories
//
//	c := catalog.NewClassifier(catalog.DefaultTable())
//	c.Classify("png")                   // catalog.CategoryImage
//	c.ExtensionsFor(catalog.CategoryImage) // set used to build a scan request
package catalog
