package lattice

import "embed"

// EmailFS carries the email templates shipped with the binary.
//
//go:embed templates/emails
var EmailFS embed.FS
