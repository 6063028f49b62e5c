// Package assets provides the stylesheets and page templates of the web UI
// and the HTML export.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in files compiled in with go:embed
//	    ├── FilesystemLoader  - overrides from a directory on disk
//	    └── AssetResolver     - custom-first lookup with embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── ui.css         # web UI stylesheet
//	│   └── export.css     # stylesheet of the downloaded page
//	└── templates/
//	    └── index.html     # upload page (html/template)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
