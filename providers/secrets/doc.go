// Package secrets resolves credentials by name.
//
// [NewEnv] reads the process environment after loading optional dotenv files
// into it; [NewFile] reads a single dotenv file without touching the
// environment. A missing name resolves to the empty string and logs a
// warning: the empty credential is passed on unchanged and the remote
// service reports the authentication failure.
package secrets
