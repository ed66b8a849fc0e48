// Package assets resolves and publishes static files referenced by
// markdown documents.
//
// # Store Architecture
//
// A single Store is shared by all documents in a build:
//
//	Store
//	    ├── Resolve   - maps a markdown reference to an absolute source path,
//	    │               trying the document directory first, then each
//	    │               configured source root
//	    └── Publish   - copies a resolved file into the output tree under a
//	    │               content-addressed directory and returns its public URL
//	    └── Published - lists everything published, for the build manifest
//
// # Output Layout
//
// Published files are content addressed so unchanged assets keep stable
// URLs across rebuilds and identical files referenced from several
// documents are stored once:
//
//	{outDir}/
//	└── static/
//	    └── {sha256[:12]}/
//	        └── {original name}
//
// # Security
//
// Resolve verifies that resolved paths stay inside the configured source
// roots, with symlinks evaluated before the containment check.
package assets
