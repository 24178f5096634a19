package cli

import "github.com/canonical/pobuild/internal/gettext"

// WithRunner sets how msginit is run.
func WithRunner(r gettext.Runner) func(*options) {
	return func(o *options) {
		o.runner = r
	}
}
