// Package source locates dependency manifests for a project reference.
//
// A reference is one of:
//
//   - a local directory: manifests directly inside it are used
//   - a local manifest file
//   - a remote repository URL (https://, ssh://, git@host:owner/repo),
//     shallow-cloned with go-git into a temporary directory
//   - with [Options.Env], a Python interpreter or virtualenv whose
//     installed packages are captured with "pip freeze"
//
// Every located reference becomes a [Project] listing [deps.Descriptor]
// values for the manifest parser. Projects backed by temporary files must
// be closed.
//
//	loc, _ := source.NewLocator(source.Options{Names: []string{"reqs/*.txt"}})
//	p, err := loc.Locate(ctx, "https://github.com/psf/requests")
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
// [deps.Descriptor]: github.com/matzehuels/deplic/pkg/deps.Descriptor
package source
