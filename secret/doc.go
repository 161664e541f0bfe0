// Package secret resolves credential references in configuration values so
// API keys never have to be written into config files.
//
// A value is resolved in two steps. First ${VAR} references are expanded
// strictly: a missing variable is an error rather than an empty string.
// Then, if the whole value has the form
//
//	secretref:<provider>:<ref>
//
// it is replaced by what the named Provider returns for ref. The env and
// file providers are built in:
//
//	secretref:env:RAPIDAPI_KEY
//	secretref:file:/run/secrets/rapidapi_key
package secret
