// Package pypi is a client for the PyPI JSON API.
//
// Only the fields needed for license reporting are decoded: the package
// name, latest version, the free-form license field and the trove
// classifiers. A lookup is a single GET of {base}/{package}/json.
//
//	client := pypi.NewClient(cache.NewNullCache(), time.Hour)
//	info, err := client.FetchPackage(ctx, "requests", false)
package pypi
