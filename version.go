package sequent

// Version is the release version, set at build time with
// -ldflags "-X github.com/aretw0/sequent.Version=...".
var Version = "0.1.0-dev"
